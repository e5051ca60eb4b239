package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryDAO_InsertTrimsToCap(t *testing.T) {
	db := openTestDB(t)
	d := NewHistoryDAO(db, 3)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := d.Insert(ctx, ChangeEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    fmt.Sprintf("action_%d", i),
			ChangedBy: "dana@example.com",
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&ChangeEntry{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	// The oldest two were trimmed; the newest three remain, newest first.
	entries, err := d.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "action_4", entries[0].Action)
	assert.Equal(t, "action_2", entries[2].Action)
}

func TestHistoryDAO_InsertUnderCapKeepsAll(t *testing.T) {
	d := NewHistoryDAO(openTestDB(t), 500)
	ctx := context.Background()

	entry, err := d.Insert(ctx, ChangeEntry{
		Timestamp:     time.Now(),
		Action:        "order_submitted",
		Details:       "order ord-1, 540.00 due",
		ChangedBy:     "dana@example.com",
		RelatedEmails: "dana@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	entries, err := d.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "order_submitted", entries[0].Action)
}

func TestHistoryDAO_FindRecentRespectsLimit(t *testing.T) {
	d := NewHistoryDAO(openTestDB(t), 500)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := d.Insert(ctx, ChangeEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    fmt.Sprintf("action_%d", i),
			ChangedBy: "director@example.com",
		})
		require.NoError(t, err)
	}

	entries, err := d.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "action_3", entries[0].Action)
	assert.Equal(t, "action_2", entries[1].Action)
}
