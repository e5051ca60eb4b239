package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

var ErrContactNotFound = dao.ErrContactNotFound

type ContactDAO interface {
	InsertForCamper(ctx context.Context, contact dao.EmergencyContact, camperID uint) (dao.EmergencyContact, error)
	Update(ctx context.Context, contact dao.EmergencyContact) (dao.EmergencyContact, error)
	FindByID(ctx context.Context, id uint) (dao.EmergencyContact, error)
	FindByCamperID(ctx context.Context, camperID uint) ([]dao.EmergencyContact, error)
	IsLinkedToParent(ctx context.Context, contactID, parentID uint) (bool, error)
	DeleteLink(ctx context.Context, camperID, contactID uint) error
	DeleteOrphanedLinks(ctx context.Context, camperID uint) (int64, error)
}

type ContactUserDAO interface {
	FindByID(ctx context.Context, id uint) (dao.User, error)
}

// ContactRepository owns the tagged-variant resolution: a parent-reference
// contact leaves this layer with Name/Phone/PhotoURL already copied from the
// parent row, so no caller ever needs to know about the indirection.
type ContactRepository struct {
	dao     ContactDAO
	userDAO ContactUserDAO
}

func NewContactRepository(dao ContactDAO, userDAO ContactUserDAO) *ContactRepository {
	return &ContactRepository{
		dao:     dao,
		userDAO: userDAO,
	}
}

func (r *ContactRepository) CreateForCamper(ctx context.Context, contact domain.EmergencyContact, camperID uint) (domain.EmergencyContact, error) {
	created, err := r.dao.InsertForCamper(ctx, r.domainToDAO(contact), camperID)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("r.dao.InsertForCamper -> %w", err)
	}

	return r.resolve(ctx, created)
}

func (r *ContactRepository) Update(ctx context.Context, contact domain.EmergencyContact) (domain.EmergencyContact, error) {
	existing, err := r.dao.FindByID(ctx, contact.ID)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Relationship = contact.Relationship
	existing.Priority = contact.Priority
	if existing.ParentID == nil {
		existing.Name = contact.Name
		existing.Phone = contact.Phone
		existing.PhotoURL = contact.PhotoURL
	}

	updated, err := r.dao.Update(ctx, existing)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.resolve(ctx, updated)
}

func (r *ContactRepository) FindByID(ctx context.Context, id uint) (domain.EmergencyContact, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.resolve(ctx, found)
}

// FindByCamperID runs the orphaned-link repair pass before reading, then
// returns the camper's contacts fully resolved.
func (r *ContactRepository) FindByCamperID(ctx context.Context, camperID uint) ([]domain.EmergencyContact, error) {
	removed, err := r.dao.DeleteOrphanedLinks(ctx, camperID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DeleteOrphanedLinks -> %w", err)
	}
	if removed > 0 {
		zap.L().Info("repaired orphaned emergency contact links",
			zap.Uint("camper_id", camperID),
			zap.Int64("removed", removed),
		)
	}

	found, err := r.dao.FindByCamperID(ctx, camperID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCamperID -> %w", err)
	}

	contacts := make([]domain.EmergencyContact, 0, len(found))
	for _, c := range found {
		resolved, err := r.resolve(ctx, c)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, resolved)
	}

	return contacts, nil
}

func (r *ContactRepository) IsReachableBy(ctx context.Context, contactID, parentID uint) (bool, error) {
	ok, err := r.dao.IsLinkedToParent(ctx, contactID, parentID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsLinkedToParent -> %w", err)
	}
	return ok, nil
}

func (r *ContactRepository) Unlink(ctx context.Context, camperID, contactID uint) error {
	if err := r.dao.DeleteLink(ctx, camperID, contactID); err != nil {
		return fmt.Errorf("r.dao.DeleteLink -> %w", err)
	}
	return nil
}

func (r *ContactRepository) resolve(ctx context.Context, c dao.EmergencyContact) (domain.EmergencyContact, error) {
	contact := domain.EmergencyContact{
		ID:           c.ID,
		ParentID:     c.ParentID,
		Name:         c.Name,
		Phone:        c.Phone,
		Relationship: c.Relationship,
		PhotoURL:     c.PhotoURL,
		Priority:     c.Priority,
	}

	if c.ParentID == nil {
		return contact, nil
	}

	parent, err := r.userDAO.FindByID(ctx, *c.ParentID)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("r.userDAO.FindByID -> %w", err)
	}

	contact.Name = parent.Name
	contact.Phone = parent.Phone
	contact.PhotoURL = parent.PhotoURL

	return contact, nil
}

func (r *ContactRepository) domainToDAO(c domain.EmergencyContact) dao.EmergencyContact {
	d := dao.EmergencyContact{
		ID:           c.ID,
		ParentID:     c.ParentID,
		Relationship: c.Relationship,
		Priority:     c.Priority,
	}
	// Display fields are stored only on standalone contacts.
	if c.ParentID == nil {
		d.Name = c.Name
		d.Phone = c.Phone
		d.PhotoURL = c.PhotoURL
	}
	return d
}
