package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedFamily creates a parent, one camper linked to it, and returns both IDs.
func seedFamily(t *testing.T, db *gorm.DB, email string) (parentID, camperID uint) {
	t.Helper()

	user := User{Email: email, Password: "x", Name: "Parent", Phone: "5550000000", Role: "parent"}
	require.NoError(t, db.Create(&user).Error)

	camper := Camper{Name: "Camper", Birthdate: "2018-01-01"}
	require.NoError(t, db.Create(&camper).Error)
	require.NoError(t, db.Create(&CamperParentLink{CamperID: camper.ID, ParentID: user.ID}).Error)

	return user.ID, camper.ID
}

func TestContactDAO_InsertForCamperAndFindByCamperID(t *testing.T) {
	db := openTestDB(t)
	d := NewContactDAO(db)
	ctx := context.Background()
	_, camperID := seedFamily(t, db, "a@example.com")

	second, err := d.InsertForCamper(ctx, EmergencyContact{
		Name: "Rob", Phone: "5552014455", Relationship: "uncle", Priority: 2,
	}, camperID)
	require.NoError(t, err)

	first, err := d.InsertForCamper(ctx, EmergencyContact{
		Name: "Grandma June", Phone: "5552016677", Relationship: "grandparent", Priority: 1,
	}, camperID)
	require.NoError(t, err)

	contacts, err := d.FindByCamperID(ctx, camperID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, first.ID, contacts[0].ID) // priority order
	assert.Equal(t, second.ID, contacts[1].ID)
}

func TestContactDAO_IsLinkedToParent(t *testing.T) {
	db := openTestDB(t)
	d := NewContactDAO(db)
	ctx := context.Background()

	parentID, camperID := seedFamily(t, db, "a@example.com")
	otherParentID, _ := seedFamily(t, db, "b@example.com")

	contact, err := d.InsertForCamper(ctx, EmergencyContact{
		Name: "Rob", Phone: "5552014455", Relationship: "uncle",
	}, camperID)
	require.NoError(t, err)

	linked, err := d.IsLinkedToParent(ctx, contact.ID, parentID)
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = d.IsLinkedToParent(ctx, contact.ID, otherParentID)
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestContactDAO_DeleteLink(t *testing.T) {
	db := openTestDB(t)
	d := NewContactDAO(db)
	ctx := context.Background()
	_, camperID := seedFamily(t, db, "a@example.com")

	contact, err := d.InsertForCamper(ctx, EmergencyContact{
		Name: "Rob", Phone: "5552014455", Relationship: "uncle",
	}, camperID)
	require.NoError(t, err)

	require.NoError(t, d.DeleteLink(ctx, camperID, contact.ID))

	contacts, err := d.FindByCamperID(ctx, camperID)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	// The contact row itself survives; only the link is gone.
	_, err = d.FindByID(ctx, contact.ID)
	assert.NoError(t, err)
}

func TestContactDAO_DeleteOrphanedLinks(t *testing.T) {
	db := openTestDB(t)
	d := NewContactDAO(db)
	ctx := context.Background()

	parentID, camperID := seedFamily(t, db, "a@example.com")
	strangerID, _ := seedFamily(t, db, "stranger@example.com")

	// Healthy parent reference: the linked parent is still on the camper.
	ownRef := EmergencyContact{ParentID: &parentID, Relationship: "parent", Priority: 1}
	require.NoError(t, db.Create(&ownRef).Error)
	require.NoError(t, db.Create(&CamperContactLink{CamperID: camperID, ContactID: ownRef.ID}).Error)

	// Bogus link: a parent reference to someone no longer on the camper.
	staleRef := EmergencyContact{ParentID: &strangerID, Relationship: "parent", Priority: 1}
	require.NoError(t, db.Create(&staleRef).Error)
	require.NoError(t, db.Create(&CamperContactLink{CamperID: camperID, ContactID: staleRef.ID}).Error)

	// Plain contacts are never orphaned.
	plain, err := d.InsertForCamper(ctx, EmergencyContact{
		Name: "Rob", Phone: "5552014455", Relationship: "uncle",
	}, camperID)
	require.NoError(t, err)

	removed, err := d.DeleteOrphanedLinks(ctx, camperID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	contacts, err := d.FindByCamperID(ctx, camperID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	ids := []uint{contacts[0].ID, contacts[1].ID}
	assert.Contains(t, ids, ownRef.ID)
	assert.Contains(t, ids, plain.ID)
}

func TestContactDAO_FindByIDNotFound(t *testing.T) {
	d := NewContactDAO(openTestDB(t))

	_, err := d.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrContactNotFound)
}
