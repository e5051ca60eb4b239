package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SignupBatch is everything the onboarding wizard accumulates, persisted in
// one shot when the parent finishes.
type SignupBatch struct {
	User     User
	Campers  []Camper
	Contacts []EmergencyContact
	History  ChangeEntry
}

type OnboardingDAO struct {
	db         *gorm.DB
	historyCap int
}

func NewOnboardingDAO(db *gorm.DB, historyCap int) *OnboardingDAO {
	return &OnboardingDAO{
		db:         db,
		historyCap: historyCap,
	}
}

// CompleteSignup creates the parent account, every camper with its parent
// link, the parent's own parent-reference contact plus the wizard's contacts
// linked to every camper, and the history entry, all in one transaction.
// Either the whole account exists afterwards or none of it does.
func (d *OnboardingDAO) CompleteSignup(ctx context.Context, batch SignupBatch) (SignupBatch, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch.User).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, `unique constraint "uni_users_email"`) {
				return ErrUserEmailExists
			}
			return err
		}

		camperIDs := make([]uint, 0, len(batch.Campers))
		for i := range batch.Campers {
			if err := tx.Create(&batch.Campers[i]).Error; err != nil {
				return err
			}
			link := CamperParentLink{CamperID: batch.Campers[i].ID, ParentID: batch.User.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
			camperIDs = append(camperIDs, batch.Campers[i].ID)
		}

		// The parent is always the first emergency contact of their own
		// campers, stored as a parent reference.
		self := EmergencyContact{
			ParentID:     &batch.User.ID,
			Relationship: "parent",
			Priority:     1,
		}
		contacts := append([]EmergencyContact{self}, batch.Contacts...)

		for i := range contacts {
			if err := tx.Create(&contacts[i]).Error; err != nil {
				return err
			}
			for _, camperID := range camperIDs {
				link := CamperContactLink{CamperID: camperID, ContactID: contacts[i].ID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}
		batch.Contacts = contacts

		if batch.History.Timestamp.IsZero() {
			batch.History.Timestamp = time.Now()
		}
		var txErr error
		batch.History, txErr = insertChangeEntry(tx, batch.History, d.historyCap)
		return txErr
	})
	if err != nil {
		return SignupBatch{}, err
	}

	return batch, nil
}
