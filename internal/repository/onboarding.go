package repository

import (
	"context"
	"strings"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

type OnboardingDAO interface {
	CompleteSignup(ctx context.Context, batch dao.SignupBatch) (dao.SignupBatch, error)
}

type OnboardingRepository struct {
	dao OnboardingDAO
}

func NewOnboardingRepository(dao OnboardingDAO) *OnboardingRepository {
	return &OnboardingRepository{
		dao: dao,
	}
}

// CompleteSignup persists the whole wizard outcome atomically and returns the
// created parent account.
func (r *OnboardingRepository) CompleteSignup(
	ctx context.Context,
	user domain.User,
	campers []domain.Camper,
	contacts []domain.EmergencyContact,
	entry domain.ChangeEntry,
) (domain.User, error) {
	batch := dao.SignupBatch{
		User: dao.User{
			Email:    user.Email,
			Password: user.Password,
			Name:     user.Name,
			Phone:    user.Phone,
			PhotoURL: user.PhotoURL,
			Role:     user.Role,
		},
		History: dao.ChangeEntry{
			Timestamp:     entry.Timestamp,
			Action:        entry.Action,
			Details:       entry.Details,
			ChangedBy:     entry.ChangedBy,
			RelatedEmails: strings.Join(entry.RelatedEmails, ","),
		},
	}

	for _, c := range campers {
		batch.Campers = append(batch.Campers, dao.Camper{
			Name:      c.Name,
			Birthdate: c.Birthdate,
			Grade:     c.Grade,
			Phone:     c.Phone,
			PhotoURL:  c.PhotoURL,
		})
	}
	for _, c := range contacts {
		batch.Contacts = append(batch.Contacts, dao.EmergencyContact{
			Name:         c.Name,
			Phone:        c.Phone,
			Relationship: c.Relationship,
			PhotoURL:     c.PhotoURL,
			Priority:     c.Priority,
		})
	}

	created, err := r.dao.CompleteSignup(ctx, batch)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:        created.User.ID,
		Email:     created.User.Email,
		Password:  created.User.Password,
		Name:      created.User.Name,
		Phone:     created.User.Phone,
		PhotoURL:  created.User.PhotoURL,
		Role:      created.User.Role,
		CreatedAt: created.User.CreatedAt,
		UpdatedAt: created.User.UpdatedAt,
	}, nil
}
