package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, d *RegistrationDAO, orderID string, rows ...Registration) {
	t.Helper()
	for i := range rows {
		rows[i].OrderID = orderID
		if rows[i].Status == "" {
			rows[i].Status = "pending"
		}
		if rows[i].PaymentStatus == "" {
			rows[i].PaymentStatus = "unpaid"
		}
	}
	require.NoError(t, d.InsertOrder(context.Background(), rows))
}

func TestRegistrationDAO_InsertAndFindByOrderID(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "r2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", AmountCents: 6000, VenmoCode: "SRC-AAAA1111"},
		Registration{ID: "r1", CamperID: 1, Date: "2026-06-15", Sessions: "morning,afternoon", AmountCents: 12000, VenmoCode: "SRC-AAAA1111"},
	)

	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-06-15", rows[0].Date) // sorted by date
	assert.Equal(t, "r1", rows[0].ID)

	_, err = d.FindByOrderID(ctx, "no-such-order")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRegistrationDAO_ReplaceOrder(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "old-1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000, VenmoCode: "SRC-AAAA1111"},
		Registration{ID: "old-2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", AmountCents: 6000, VenmoCode: "SRC-AAAA1111"},
	)

	newRows := []Registration{
		{ID: "new-1", OrderID: "ord-1", CamperID: 1, Date: "2026-06-17", Sessions: "afternoon",
			Status: "pending", PaymentStatus: "unpaid", AmountCents: 6000, VenmoCode: "SRC-AAAA1111"},
	}
	require.NoError(t, d.ReplaceOrder(ctx, "ord-1", newRows))

	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byID := make(map[string]Registration, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, "cancelled", byID["old-1"].Status)
	assert.True(t, byID["old-1"].ReplacedByEdit)
	assert.Equal(t, "cancelled", byID["old-2"].Status)
	assert.Equal(t, "pending", byID["new-1"].Status)
	assert.False(t, byID["new-1"].ReplacedByEdit)
}

func TestRegistrationDAO_ReplaceOrderWithoutLiveRows(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "old-1", CamperID: 1, Date: "2026-06-15", Sessions: "morning",
			Status: "cancelled", AmountCents: 6000},
	)

	err := d.ReplaceOrder(ctx, "ord-1", []Registration{
		{ID: "new-1", OrderID: "ord-1", CamperID: 1, Date: "2026-06-16", Sessions: "morning",
			Status: "pending", PaymentStatus: "unpaid", AmountCents: 6000},
	})
	require.ErrorIs(t, err, ErrOrderNotFound)

	// The failed swap must not have inserted the new row.
	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "old-1", rows[0].ID)
}

func TestRegistrationDAO_ReplaceOrderRollsBackOnInsertFailure(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "old-1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
	)

	// Duplicate primary key forces the insert half to fail; the cancel half
	// must roll back with it.
	err := d.ReplaceOrder(ctx, "ord-1", []Registration{
		{ID: "old-1", OrderID: "ord-1", CamperID: 1, Date: "2026-06-16", Sessions: "morning",
			Status: "pending", PaymentStatus: "unpaid", AmountCents: 6000},
	})
	require.Error(t, err)

	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pending", rows[0].Status)
	assert.False(t, rows[0].ReplacedByEdit)
}

func TestRegistrationDAO_FindLiveByCamperID(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "r1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
		Registration{ID: "r2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", Status: "approved", AmountCents: 6000},
		Registration{ID: "r3", CamperID: 1, Date: "2026-06-17", Sessions: "morning", Status: "cancelled", AmountCents: 6000},
		Registration{ID: "r4", CamperID: 2, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
	)

	rows, err := d.FindLiveByCamperID(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, "cancelled", r.Status)
		assert.Equal(t, uint(1), r.CamperID)
	}
}

func TestRegistrationDAO_FindLiveByCamperIDExcludesOrder(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "r1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
	)
	seedOrder(t, d, "ord-2",
		Registration{ID: "r2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", AmountCents: 6000},
	)

	rows, err := d.FindLiveByCamperID(ctx, 1, "ord-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r2", rows[0].ID)
}

func TestRegistrationDAO_UpdateStatusByOrderSkipsCancelled(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "r1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
		Registration{ID: "r2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", Status: "cancelled", AmountCents: 6000},
	)

	require.NoError(t, d.UpdateStatusByOrder(ctx, "ord-1", "approved"))

	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	for _, r := range rows {
		switch r.ID {
		case "r1":
			assert.Equal(t, "approved", r.Status)
		case "r2":
			assert.Equal(t, "cancelled", r.Status)
		}
	}

	assert.ErrorIs(t, d.UpdateStatusByOrder(ctx, "no-such-order", "approved"), ErrOrderNotFound)
}

func TestRegistrationDAO_UpdatePaymentStatusByOrder(t *testing.T) {
	d := NewRegistrationDAO(openTestDB(t))
	ctx := context.Background()

	seedOrder(t, d, "ord-1",
		Registration{ID: "r1", CamperID: 1, Date: "2026-06-15", Sessions: "morning", AmountCents: 6000},
		Registration{ID: "r2", CamperID: 1, Date: "2026-06-16", Sessions: "morning", Status: "cancelled", AmountCents: 6000},
	)

	require.NoError(t, d.UpdatePaymentStatusByOrder(ctx, "ord-1", "sent"))

	rows, err := d.FindByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	for _, r := range rows {
		switch r.ID {
		case "r1":
			assert.Equal(t, "sent", r.PaymentStatus)
		case "r2":
			assert.Equal(t, "unpaid", r.PaymentStatus)
		}
	}
}
