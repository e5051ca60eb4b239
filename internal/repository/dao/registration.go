package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrOrderNotFound        = errors.New("order not found")
)

type Registration struct {
	ID      string `gorm:"primaryKey"` // uuid
	OrderID string `gorm:"not null;index"`

	CamperID uint   `gorm:"not null;index"`
	Date     string `gorm:"not null;index"` // YYYY-MM-DD
	Sessions string `gorm:"not null"`       // comma-joined session names

	Status        string `gorm:"not null;index"`
	PaymentStatus string `gorm:"not null"`

	AmountCents    int64 `gorm:"not null"`
	DiscountCents  int64 `gorm:"not null;default:0"`
	VenmoCode      string
	ReplacedByEdit bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// InsertOrder writes every row of a submission in one transaction.
func (d *RegistrationDAO) InsertOrder(ctx context.Context, rows []Registration) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceOrder atomically supersedes an order: every live row is marked
// cancelled with replaced_by_edit, then the new rows are inserted. The
// whole swap commits or none of it does.
func (d *RegistrationDAO) ReplaceOrder(ctx context.Context, orderID string, newRows []Registration) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Registration{}).
			Where("order_id = ? AND status IN ?", orderID, []string{"pending", "approved"}).
			Updates(map[string]interface{}{
				"status":           "cancelled",
				"replaced_by_edit": true,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		for i := range newRows {
			if err := tx.Create(&newRows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id string) (Registration, error) {
	var row Registration

	result := d.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}
		return Registration{}, result.Error
	}

	return row, nil
}

func (d *RegistrationDAO) FindByOrderID(ctx context.Context, orderID string) ([]Registration, error) {
	var rows []Registration

	result := d.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("date, camper_id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(rows) == 0 {
		return nil, ErrOrderNotFound
	}

	return rows, nil
}

func (d *RegistrationDAO) FindByCamperIDs(ctx context.Context, camperIDs []uint) ([]Registration, error) {
	if len(camperIDs) == 0 {
		return nil, nil
	}

	var rows []Registration
	result := d.db.WithContext(ctx).
		Where("camper_id IN ?", camperIDs).
		Order("date, camper_id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// FindLiveByCamperID returns the camper's non-cancelled, non-rejected rows,
// used to keep already-registered slots out of the selectable calendar. A
// non-empty excludeOrderID leaves that order's rows out, so an edit can keep
// slots the order itself holds.
func (d *RegistrationDAO) FindLiveByCamperID(ctx context.Context, camperID uint, excludeOrderID string) ([]Registration, error) {
	var rows []Registration

	query := d.db.WithContext(ctx).
		Where("camper_id = ? AND status IN ?", camperID, []string{"pending", "approved"})
	if excludeOrderID != "" {
		query = query.Where("order_id <> ?", excludeOrderID)
	}

	result := query.Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *RegistrationDAO) UpdateStatusByOrder(ctx context.Context, orderID, status string) error {
	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("order_id = ? AND status <> ?", orderID, "cancelled").
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (d *RegistrationDAO) UpdatePaymentStatusByOrder(ctx context.Context, orderID, paymentStatus string) error {
	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("order_id = ? AND status <> ?", orderID, "cancelled").
		Update("payment_status", paymentStatus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
