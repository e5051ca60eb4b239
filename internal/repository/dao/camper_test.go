package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamperDAO_InsertForParentAndIsLinked(t *testing.T) {
	db := openTestDB(t)
	d := NewCamperDAO(db)
	ctx := context.Background()

	parent := User{Email: "a@example.com", Password: "x", Name: "Parent", Phone: "5550000000", Role: "parent"}
	require.NoError(t, db.Create(&parent).Error)

	camper, err := d.InsertForParent(ctx, Camper{Name: "Mia", Birthdate: "2018-04-02"}, parent.ID)
	require.NoError(t, err)
	require.NotZero(t, camper.ID)

	linked, err := d.IsLinked(ctx, camper.ID, parent.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = d.IsLinked(ctx, camper.ID, parent.ID+1)
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestCamperDAO_FindByParentID(t *testing.T) {
	db := openTestDB(t)
	d := NewCamperDAO(db)
	ctx := context.Background()

	parent := User{Email: "a@example.com", Password: "x", Name: "Parent", Phone: "5550000000", Role: "parent"}
	require.NoError(t, db.Create(&parent).Error)

	first, err := d.InsertForParent(ctx, Camper{Name: "Mia", Birthdate: "2018-04-02"}, parent.ID)
	require.NoError(t, err)
	second, err := d.InsertForParent(ctx, Camper{Name: "Theo", Birthdate: "2016-09-12"}, parent.ID)
	require.NoError(t, err)

	// An unrelated family's camper never shows up.
	other := User{Email: "b@example.com", Password: "x", Name: "Other", Phone: "5550000001", Role: "parent"}
	require.NoError(t, db.Create(&other).Error)
	_, err = d.InsertForParent(ctx, Camper{Name: "Stranger", Birthdate: "2017-01-01"}, other.ID)
	require.NoError(t, err)

	campers, err := d.FindByParentID(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, campers, 2)
	assert.Equal(t, first.ID, campers[0].ID)
	assert.Equal(t, second.ID, campers[1].ID)
}

func TestCamperDAO_SharedCustody(t *testing.T) {
	db := openTestDB(t)
	d := NewCamperDAO(db)
	ctx := context.Background()

	mom := User{Email: "mom@example.com", Password: "x", Name: "Mom", Phone: "5550000000", Role: "parent"}
	dad := User{Email: "dad@example.com", Password: "x", Name: "Dad", Phone: "5550000001", Role: "parent"}
	require.NoError(t, db.Create(&mom).Error)
	require.NoError(t, db.Create(&dad).Error)

	camper, err := d.InsertForParent(ctx, Camper{Name: "Mia", Birthdate: "2018-04-02"}, mom.ID)
	require.NoError(t, err)
	require.NoError(t, d.InsertLink(ctx, camper.ID, dad.ID))

	ids, err := d.FindParentIDs(ctx, camper.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{mom.ID, dad.ID}, ids)

	for _, parentID := range ids {
		linked, err := d.IsLinked(ctx, camper.ID, parentID)
		require.NoError(t, err)
		assert.True(t, linked)
	}
}
