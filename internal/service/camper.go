package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/repository"
)

var ErrCamperNotFound = repository.ErrCamperNotFound

type camperRepository interface {
	CreateForParent(ctx context.Context, camper domain.Camper, parentID uint) (domain.Camper, error)
	Update(ctx context.Context, camper domain.Camper) (domain.Camper, error)
	FindByID(ctx context.Context, id uint) (domain.Camper, error)
	FindByParentID(ctx context.Context, parentID uint) ([]domain.Camper, error)
	IsOwnedBy(ctx context.Context, camperID, parentID uint) (bool, error)
}

type CamperService struct {
	repo   camperRepository
	photos PhotoStore
}

func NewCamperService(repo camperRepository, photoStore PhotoStore) *CamperService {
	return &CamperService{
		repo:   repo,
		photos: photoStore,
	}
}

func (s *CamperService) ListCampers(ctx context.Context, parentID uint) ([]domain.Camper, error) {
	campers, err := s.repo.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParentID -> %w", err)
	}

	return campers, nil
}

func (s *CamperService) CreateCamper(ctx context.Context, parentID uint, camper domain.Camper, photo string) (domain.Camper, error) {
	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketCampers, photo)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("resolvePhoto -> %w", err)
	}
	camper.PhotoURL = photoURL

	created, err := s.repo.CreateForParent(ctx, camper, parentID)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("s.repo.CreateForParent -> %w", err)
	}

	return created, nil
}

// GetCamper returns the camper only when the parent is linked to it. An
// unowned camper reads the same as a missing one.
func (s *CamperService) GetCamper(ctx context.Context, parentID, camperID uint) (domain.Camper, error) {
	if err := s.requireOwned(ctx, parentID, camperID); err != nil {
		return domain.Camper{}, err
	}

	camper, err := s.repo.FindByID(ctx, camperID)
	if err != nil {
		if errors.Is(err, repository.ErrCamperNotFound) {
			return domain.Camper{}, ErrCamperNotFound
		}
		return domain.Camper{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return camper, nil
}

func (s *CamperService) UpdateCamper(ctx context.Context, parentID uint, camper domain.Camper, photo string) (domain.Camper, error) {
	if err := s.requireOwned(ctx, parentID, camper.ID); err != nil {
		return domain.Camper{}, err
	}

	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketCampers, photo)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("resolvePhoto -> %w", err)
	}
	camper.PhotoURL = photoURL

	updated, err := s.repo.Update(ctx, camper)
	if err != nil {
		if errors.Is(err, repository.ErrCamperNotFound) {
			return domain.Camper{}, ErrCamperNotFound
		}
		return domain.Camper{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *CamperService) requireOwned(ctx context.Context, parentID, camperID uint) error {
	owned, err := s.repo.IsOwnedBy(ctx, camperID, parentID)
	if err != nil {
		return fmt.Errorf("s.repo.IsOwnedBy -> %w", err)
	}
	if !owned {
		return ErrCamperNotFound
	}
	return nil
}
