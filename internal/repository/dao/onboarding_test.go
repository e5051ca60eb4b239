package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingDAO_CompleteSignup(t *testing.T) {
	db := openTestDB(t)
	d := NewOnboardingDAO(db, 500)
	ctx := context.Background()

	batch := SignupBatch{
		User: User{
			Email: "dana@example.com", Password: "hash", Name: "Dana Whitfield",
			Phone: "5552013344", Role: "parent",
		},
		Campers: []Camper{
			{Name: "Mia Whitfield", Birthdate: "2018-04-02", Grade: "2"},
			{Name: "Theo Whitfield", Birthdate: "2016-09-12", Grade: "4"},
		},
		Contacts: []EmergencyContact{
			{Name: "Grandma June", Phone: "5552016677", Relationship: "grandparent", Priority: 2},
		},
		History: ChangeEntry{
			Timestamp: time.Now(),
			Action:    "onboarding_completed",
			ChangedBy: "dana@example.com",
		},
	}

	created, err := d.CompleteSignup(ctx, batch)
	require.NoError(t, err)
	require.NotZero(t, created.User.ID)
	require.Len(t, created.Campers, 2)

	// Each camper is linked to the parent.
	for _, c := range created.Campers {
		var links int64
		require.NoError(t, db.Model(&CamperParentLink{}).
			Where("camper_id = ? AND parent_id = ?", c.ID, created.User.ID).
			Count(&links).Error)
		assert.Equal(t, int64(1), links)
	}

	// The parent's own reference contact is prepended to the wizard contacts.
	require.Len(t, created.Contacts, 2)
	self := created.Contacts[0]
	require.NotNil(t, self.ParentID)
	assert.Equal(t, created.User.ID, *self.ParentID)
	assert.Equal(t, "parent", self.Relationship)
	assert.Equal(t, 1, self.Priority)

	// Every contact is linked to every camper.
	contactDAO := NewContactDAO(db)
	for _, c := range created.Campers {
		contacts, err := contactDAO.FindByCamperID(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, contacts, 2)
	}

	entries, err := NewHistoryDAO(db, 500).FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "onboarding_completed", entries[0].Action)
}

func TestOnboardingDAO_CompleteSignupRollsBack(t *testing.T) {
	db := openTestDB(t)
	d := NewOnboardingDAO(db, 500)
	ctx := context.Background()

	existing := User{Email: "dana@example.com", Password: "x", Name: "Dana", Phone: "5550000000", Role: "parent"}
	require.NoError(t, db.Create(&existing).Error)

	_, err := d.CompleteSignup(ctx, SignupBatch{
		User: User{Email: "dana@example.com", Password: "hash", Name: "Dana Again",
			Phone: "5552013344", Role: "parent"},
		Campers: []Camper{{Name: "Mia", Birthdate: "2018-04-02"}},
		History: ChangeEntry{Timestamp: time.Now(), Action: "onboarding_completed", ChangedBy: "dana@example.com"},
	})
	require.Error(t, err)

	// Nothing from the failed batch leaked out of the transaction.
	var campers, contacts, entries int64
	require.NoError(t, db.Model(&Camper{}).Count(&campers).Error)
	require.NoError(t, db.Model(&EmergencyContact{}).Count(&contacts).Error)
	require.NoError(t, db.Model(&ChangeEntry{}).Count(&entries).Error)
	assert.Zero(t, campers)
	assert.Zero(t, contacts)
	assert.Zero(t, entries)
}

func TestOnboardingDAO_CompleteSignupWithoutExtraContacts(t *testing.T) {
	db := openTestDB(t)
	d := NewOnboardingDAO(db, 500)
	ctx := context.Background()

	created, err := d.CompleteSignup(ctx, SignupBatch{
		User: User{Email: "solo@example.com", Password: "hash", Name: "Solo Parent",
			Phone: "5552013344", Role: "parent"},
		Campers: []Camper{{Name: "Kid", Birthdate: "2019-01-01"}},
		History: ChangeEntry{Timestamp: time.Now(), Action: "onboarding_completed", ChangedBy: "solo@example.com"},
	})
	require.NoError(t, err)

	// Even with no wizard contacts the camper still gets the parent reference.
	require.Len(t, created.Contacts, 1)
	require.NotNil(t, created.Contacts[0].ParentID)
	assert.Equal(t, created.User.ID, *created.Contacts[0].ParentID)
}
