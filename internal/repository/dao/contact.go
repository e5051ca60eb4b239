package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("emergency contact not found")

// EmergencyContact is a tagged variant in one table: ParentID non-nil marks a
// parent reference whose display fields live on the users row.
type EmergencyContact struct {
	ID uint `gorm:"primaryKey"`

	ParentID     *uint `gorm:"index"`
	Name         string
	Phone        string
	Relationship string
	PhotoURL     string
	Priority     int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CamperContactLink struct {
	ID        uint `gorm:"primaryKey"`
	CamperID  uint `gorm:"not null;index"`
	ContactID uint `gorm:"not null;index"`
}

type ContactDAO struct {
	db *gorm.DB
}

func NewContactDAO(db *gorm.DB) *ContactDAO {
	return &ContactDAO{
		db: db,
	}
}

func (d *ContactDAO) InsertForCamper(ctx context.Context, contact EmergencyContact, camperID uint) (EmergencyContact, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contact).Error; err != nil {
			return err
		}
		link := CamperContactLink{CamperID: camperID, ContactID: contact.ID}
		return tx.Create(&link).Error
	})
	if err != nil {
		return EmergencyContact{}, err
	}

	return contact, nil
}

func (d *ContactDAO) Update(ctx context.Context, contact EmergencyContact) (EmergencyContact, error) {
	result := d.db.WithContext(ctx).Save(&contact)
	if result.Error != nil {
		return EmergencyContact{}, result.Error
	}
	return contact, nil
}

func (d *ContactDAO) FindByID(ctx context.Context, id uint) (EmergencyContact, error) {
	var contact EmergencyContact

	result := d.db.WithContext(ctx).First(&contact, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EmergencyContact{}, ErrContactNotFound
		}

		return EmergencyContact{}, result.Error
	}

	return contact, nil
}

func (d *ContactDAO) FindByCamperID(ctx context.Context, camperID uint) ([]EmergencyContact, error) {
	var contacts []EmergencyContact

	result := d.db.WithContext(ctx).
		Joins("JOIN camper_contact_links ON camper_contact_links.contact_id = emergency_contacts.id").
		Where("camper_contact_links.camper_id = ?", camperID).
		Order("emergency_contacts.priority, emergency_contacts.id").
		Find(&contacts)
	if result.Error != nil {
		return nil, result.Error
	}

	return contacts, nil
}

// IsLinkedToParent reports whether the contact is attached to any camper the
// parent is linked to. Used to gate contact edits without a camper in the
// route.
func (d *ContactDAO) IsLinkedToParent(ctx context.Context, contactID, parentID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Table("camper_contact_links").
		Joins("JOIN camper_parent_links ON camper_parent_links.camper_id = camper_contact_links.camper_id").
		Where("camper_contact_links.contact_id = ? AND camper_parent_links.parent_id = ?", contactID, parentID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ContactDAO) DeleteLink(ctx context.Context, camperID, contactID uint) error {
	return d.db.WithContext(ctx).
		Where("camper_id = ? AND contact_id = ?", camperID, contactID).
		Delete(&CamperContactLink{}).Error
}

// DeleteOrphanedLinks removes links between a camper and parent-reference
// contacts whose parent is no longer linked to that camper. These "bogus"
// rows accumulated historically when a parent was unlinked from a family;
// the pass repairs them instead of erroring.
func (d *ContactDAO) DeleteOrphanedLinks(ctx context.Context, camperID uint) (int64, error) {
	subquery := d.db.
		Table("emergency_contacts").
		Select("emergency_contacts.id").
		Where("emergency_contacts.parent_id IS NOT NULL").
		Where("emergency_contacts.parent_id NOT IN (?)",
			d.db.Table("camper_parent_links").
				Select("parent_id").
				Where("camper_id = ?", camperID),
		)

	result := d.db.WithContext(ctx).
		Where("camper_id = ? AND contact_id IN (?)", camperID, subquery).
		Delete(&CamperContactLink{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
