package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

type userRepository interface {
	Update(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type UserService struct {
	repo   userRepository
	photos PhotoStore
}

func NewUserService(repo userRepository, photoStore PhotoStore) *UserService {
	return &UserService{
		repo:   repo,
		photos: photoStore,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// UpdateProfile changes the parent's display fields. Photo accepts a hosted
// URL or raw base64.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, name, phone, photo string) (domain.User, error) {
	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketParents, photo)
	if err != nil {
		return domain.User{}, fmt.Errorf("resolvePhoto -> %w", err)
	}

	updated, err := s.repo.Update(ctx, domain.User{
		ID:       id,
		Name:     name,
		Phone:    phone,
		PhotoURL: photoURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
