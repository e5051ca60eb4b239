package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/repository"
)

var ErrContactNotFound = repository.ErrContactNotFound

type contactRepository interface {
	CreateForCamper(ctx context.Context, contact domain.EmergencyContact, camperID uint) (domain.EmergencyContact, error)
	Update(ctx context.Context, contact domain.EmergencyContact) (domain.EmergencyContact, error)
	FindByID(ctx context.Context, id uint) (domain.EmergencyContact, error)
	FindByCamperID(ctx context.Context, camperID uint) ([]domain.EmergencyContact, error)
	IsReachableBy(ctx context.Context, contactID, parentID uint) (bool, error)
	Unlink(ctx context.Context, camperID, contactID uint) error
}

type contactCamperRepository interface {
	IsOwnedBy(ctx context.Context, camperID, parentID uint) (bool, error)
}

// ContactList is a camper's resolved contacts plus the soft minimum check the
// portal surfaces before camp starts.
type ContactList struct {
	Contacts  []domain.EmergencyContact `json:"contacts"`
	NeedsMore bool                      `json:"needs_more"`
}

type ContactService struct {
	repo    contactRepository
	campers contactCamperRepository
	photos  PhotoStore
}

func NewContactService(repo contactRepository, campers contactCamperRepository, photoStore PhotoStore) *ContactService {
	return &ContactService{
		repo:    repo,
		campers: campers,
		photos:  photoStore,
	}
}

func (s *ContactService) ListContacts(ctx context.Context, parentID, camperID uint) (ContactList, error) {
	if err := s.requireOwnedCamper(ctx, parentID, camperID); err != nil {
		return ContactList{}, err
	}

	contacts, err := s.repo.FindByCamperID(ctx, camperID)
	if err != nil {
		return ContactList{}, fmt.Errorf("s.repo.FindByCamperID -> %w", err)
	}

	return ContactList{
		Contacts:  contacts,
		NeedsMore: len(contacts) < domain.MinContactsPerCamper,
	}, nil
}

func (s *ContactService) AddContact(ctx context.Context, parentID, camperID uint, contact domain.EmergencyContact, photo string) (domain.EmergencyContact, error) {
	if err := s.requireOwnedCamper(ctx, parentID, camperID); err != nil {
		return domain.EmergencyContact{}, err
	}

	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketContacts, photo)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("resolvePhoto -> %w", err)
	}
	contact.PhotoURL = photoURL

	created, err := s.repo.CreateForCamper(ctx, contact, camperID)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("s.repo.CreateForCamper -> %w", err)
	}

	return created, nil
}

// UpdateContact edits a contact reachable through any of the parent's
// campers. Parent-reference contacts only accept relationship and priority
// changes; their display fields always mirror the parent account.
func (s *ContactService) UpdateContact(ctx context.Context, parentID uint, contact domain.EmergencyContact, photo string) (domain.EmergencyContact, error) {
	reachable, err := s.repo.IsReachableBy(ctx, contact.ID, parentID)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("s.repo.IsReachableBy -> %w", err)
	}
	if !reachable {
		return domain.EmergencyContact{}, ErrContactNotFound
	}

	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketContacts, photo)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("resolvePhoto -> %w", err)
	}
	contact.PhotoURL = photoURL

	updated, err := s.repo.Update(ctx, contact)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return domain.EmergencyContact{}, ErrContactNotFound
		}
		return domain.EmergencyContact{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// RemoveContact unlinks the contact from one camper. The contact row itself
// stays; it may still be linked to siblings.
func (s *ContactService) RemoveContact(ctx context.Context, parentID, camperID, contactID uint) error {
	if err := s.requireOwnedCamper(ctx, parentID, camperID); err != nil {
		return err
	}

	if err := s.repo.Unlink(ctx, camperID, contactID); err != nil {
		return fmt.Errorf("s.repo.Unlink -> %w", err)
	}

	return nil
}

func (s *ContactService) requireOwnedCamper(ctx context.Context, parentID, camperID uint) error {
	owned, err := s.campers.IsOwnedBy(ctx, camperID, parentID)
	if err != nil {
		return fmt.Errorf("s.campers.IsOwnedBy -> %w", err)
	}
	if !owned {
		return ErrCamperNotFound
	}
	return nil
}
