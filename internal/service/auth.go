package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/pkg/jwthelper"
	"github.com/sunridge-camp/portal-api/internal/repository"
)

var (
	ErrUserEmailExists  = repository.ErrUserEmailExists
	ErrWrongCredentials = errors.New("wrong email or password")
)

type authUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo       authUserRepository
	signingKey string
}

func NewAuthService(repo authUserRepository, signingKey string) *AuthService {
	return &AuthService{
		repo:       repo,
		signingKey: signingKey,
	}
}

// Signup creates a parent account directly, outside the onboarding wizard.
// Used mainly for accounts provisioned by the office.
func (s *AuthService) Signup(ctx context.Context, user domain.User, password, userAgent string) (domain.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = domain.RoleParent
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, "", ErrUserEmailExists
		}
		return domain.User{}, "", fmt.Errorf("s.repo.Create -> %w", err)
	}

	token, err := jwthelper.GenerateToken([]byte(s.signingKey), created.ID, userAgent)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, userAgent string) (domain.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, "", ErrWrongCredentials
		}
		return domain.User{}, "", fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, "", ErrWrongCredentials
	}

	token, err := jwthelper.GenerateToken([]byte(s.signingKey), user.ID, userAgent)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return user, token, nil
}
