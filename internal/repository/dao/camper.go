package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrCamperNotFound = errors.New("camper not found")

type Camper struct {
	ID uint `gorm:"primaryKey"`

	Name      string `gorm:"not null"`
	Birthdate string `gorm:"not null"` // YYYY-MM-DD
	Grade     string
	Phone     string
	PhotoURL  string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CamperParentLink struct {
	ID       uint `gorm:"primaryKey"`
	CamperID uint `gorm:"not null;index"`
	ParentID uint `gorm:"not null;index"`
}

type CamperDAO struct {
	db *gorm.DB
}

func NewCamperDAO(db *gorm.DB) *CamperDAO {
	return &CamperDAO{
		db: db,
	}
}

// InsertForParent creates the camper and its parent link in one transaction;
// a camper with no link would be invisible to everyone.
func (d *CamperDAO) InsertForParent(ctx context.Context, camper Camper, parentID uint) (Camper, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&camper).Error; err != nil {
			return err
		}
		link := CamperParentLink{CamperID: camper.ID, ParentID: parentID}
		return tx.Create(&link).Error
	})
	if err != nil {
		return Camper{}, err
	}

	return camper, nil
}

func (d *CamperDAO) Update(ctx context.Context, camper Camper) (Camper, error) {
	result := d.db.WithContext(ctx).Save(&camper)
	if result.Error != nil {
		return Camper{}, result.Error
	}
	return camper, nil
}

func (d *CamperDAO) FindByID(ctx context.Context, id uint) (Camper, error) {
	var camper Camper

	result := d.db.WithContext(ctx).First(&camper, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Camper{}, ErrCamperNotFound
		}

		return Camper{}, result.Error
	}

	return camper, nil
}

func (d *CamperDAO) FindByParentID(ctx context.Context, parentID uint) ([]Camper, error) {
	var campers []Camper

	result := d.db.WithContext(ctx).
		Joins("JOIN camper_parent_links ON camper_parent_links.camper_id = campers.id").
		Where("camper_parent_links.parent_id = ?", parentID).
		Order("campers.id").
		Find(&campers)
	if result.Error != nil {
		return nil, result.Error
	}

	return campers, nil
}

func (d *CamperDAO) FindParentIDs(ctx context.Context, camperID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&CamperParentLink{}).
		Where("camper_id = ?", camperID).
		Pluck("parent_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *CamperDAO) InsertLink(ctx context.Context, camperID, parentID uint) error {
	link := CamperParentLink{CamperID: camperID, ParentID: parentID}
	return d.db.WithContext(ctx).Create(&link).Error
}

// IsLinked reports whether the parent may see the camper.
func (d *CamperDAO) IsLinked(ctx context.Context, camperID, parentID uint) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).
		Model(&CamperParentLink{}).
		Where("camper_id = ? AND parent_id = ?", camperID, parentID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
