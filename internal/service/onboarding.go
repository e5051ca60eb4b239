package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/onboarding"
	"github.com/sunridge-camp/portal-api/internal/photos"
	"github.com/sunridge-camp/portal-api/internal/pkg/jwthelper"
	"github.com/sunridge-camp/portal-api/internal/repository"
	"github.com/sunridge-camp/portal-api/internal/storage/draftstore"
)

var (
	ErrWizardNotFound  = draftstore.ErrWizardNotFound
	ErrWizardExited    = onboarding.ErrExited
	ErrWizardCompleted = onboarding.ErrAlreadyCompleted
)

type wizardStore interface {
	SaveWizard(ctx context.Context, state *onboarding.State) error
	LoadWizard(ctx context.Context, id string) (*onboarding.State, error)
	DeleteWizard(ctx context.Context, id string) error
}

type onboardingRepository interface {
	CompleteSignup(
		ctx context.Context,
		user domain.User,
		campers []domain.Camper,
		contacts []domain.EmergencyContact,
		entry domain.ChangeEntry,
	) (domain.User, error)
}

type onboardingUserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type welcomeMailer interface {
	SendWelcome(ctx context.Context, to, parentName string) error
}

// StepData carries the payload for whichever step the wizard is currently on.
// Only the field matching the current step is read.
type StepData struct {
	Account  *onboarding.AccountInput  `json:"account,omitempty"`
	Campers  []onboarding.CamperInput  `json:"campers,omitempty"`
	Contacts []onboarding.ContactInput `json:"contacts,omitempty"`
	Payment  *onboarding.PaymentInput  `json:"payment,omitempty"`
	Policies *onboarding.PolicyInput   `json:"policies,omitempty"`
}

type OnboardingService struct {
	store      wizardStore
	repo       onboardingRepository
	users      onboardingUserRepository
	mailer     welcomeMailer
	photos     PhotoStore
	signingKey string
}

func NewOnboardingService(
	store wizardStore,
	repo onboardingRepository,
	users onboardingUserRepository,
	mailer welcomeMailer,
	photoStore PhotoStore,
	signingKey string,
) *OnboardingService {
	return &OnboardingService{
		store:      store,
		repo:       repo,
		users:      users,
		mailer:     mailer,
		photos:     photoStore,
		signingKey: signingKey,
	}
}

func (s *OnboardingService) StartWizard(ctx context.Context) (*onboarding.State, error) {
	state := onboarding.NewState(uuid.NewString())

	if err := s.store.SaveWizard(ctx, state); err != nil {
		return nil, fmt.Errorf("s.store.SaveWizard -> %w", err)
	}

	return state, nil
}

func (s *OnboardingService) GetWizard(ctx context.Context, id string) (*onboarding.State, error) {
	state, err := s.store.LoadWizard(ctx, id)
	if err != nil {
		if errors.Is(err, draftstore.ErrWizardNotFound) {
			return nil, ErrWizardNotFound
		}
		return nil, fmt.Errorf("s.store.LoadWizard -> %w", err)
	}

	return state, nil
}

// SaveStep stores the submitted data onto the wizard's current step without
// advancing. Validation happens on Next, not here, so half-filled forms can
// still be saved for later.
func (s *OnboardingService) SaveStep(ctx context.Context, id string, data StepData) (*onboarding.State, error) {
	state, err := s.GetWizard(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Completed {
		return nil, ErrWizardCompleted
	}

	switch state.Step {
	case onboarding.StepAccount:
		if data.Account != nil {
			state.Account = *data.Account
		}
	case onboarding.StepCampers:
		if data.Campers != nil {
			state.Campers = data.Campers
		}
	case onboarding.StepContacts:
		if data.Contacts != nil {
			state.Contacts = data.Contacts
		}
	case onboarding.StepPayment:
		if data.Payment != nil {
			state.Payment = *data.Payment
		}
	case onboarding.StepPolicies:
		if data.Policies != nil {
			state.Policies = *data.Policies
		}
	}

	if err := s.store.SaveWizard(ctx, state); err != nil {
		return nil, fmt.Errorf("s.store.SaveWizard -> %w", err)
	}

	return state, nil
}

func (s *OnboardingService) Next(ctx context.Context, id string) (*onboarding.State, error) {
	state, err := s.GetWizard(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := state.Next(s.emailTaken(ctx)); err != nil {
		return nil, err
	}

	if err := s.store.SaveWizard(ctx, state); err != nil {
		return nil, fmt.Errorf("s.store.SaveWizard -> %w", err)
	}

	return state, nil
}

// Back steps backwards. Backing out of step 1 discards the wizard entirely
// and reports ErrWizardExited.
func (s *OnboardingService) Back(ctx context.Context, id string) (*onboarding.State, error) {
	state, err := s.GetWizard(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := state.Back(); err != nil {
		if errors.Is(err, onboarding.ErrExited) {
			if delErr := s.store.DeleteWizard(ctx, id); delErr != nil {
				return nil, fmt.Errorf("s.store.DeleteWizard -> %w", delErr)
			}
			return nil, ErrWizardExited
		}
		return nil, err
	}

	if err := s.store.SaveWizard(ctx, state); err != nil {
		return nil, fmt.Errorf("s.store.SaveWizard -> %w", err)
	}

	return state, nil
}

func (s *OnboardingService) SkipToPolicies(ctx context.Context, id string) (*onboarding.State, error) {
	state, err := s.GetWizard(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := state.SkipToPolicies(); err != nil {
		return nil, err
	}

	if err := s.store.SaveWizard(ctx, state); err != nil {
		return nil, fmt.Errorf("s.store.SaveWizard -> %w", err)
	}

	return state, nil
}

// Complete turns the finished wizard into a real account: parent, campers,
// contacts and the history entry all land in one transaction, then the wizard
// is discarded and a welcome email goes out. The returned token logs the new
// parent straight in.
func (s *OnboardingService) Complete(ctx context.Context, id, userAgent string) (domain.User, string, error) {
	state, err := s.GetWizard(ctx, id)
	if err != nil {
		return domain.User{}, "", err
	}

	if err := state.ReadyToComplete(s.emailTaken(ctx)); err != nil {
		return domain.User{}, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(state.Account.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	photoURL, err := resolvePhoto(ctx, s.photos, photos.BucketParents, state.Account.PhotoB64)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("resolvePhoto -> %w", err)
	}

	user := domain.User{
		Email:    state.Account.Email,
		Password: string(hashed),
		Name:     state.Account.Name,
		Phone:    state.Account.Phone,
		PhotoURL: photoURL,
		Role:     domain.RoleParent,
	}

	campers := make([]domain.Camper, 0, len(state.Campers))
	for _, c := range state.Campers {
		camperPhoto, err := resolvePhoto(ctx, s.photos, photos.BucketCampers, c.PhotoB64)
		if err != nil {
			return domain.User{}, "", fmt.Errorf("resolvePhoto -> %w", err)
		}
		campers = append(campers, domain.Camper{
			Name:      c.Name,
			Birthdate: c.Birthdate,
			Grade:     c.Grade,
			Phone:     c.Phone,
			PhotoURL:  camperPhoto,
		})
	}

	contacts := make([]domain.EmergencyContact, 0, len(state.Contacts))
	for _, c := range state.Contacts {
		contacts = append(contacts, domain.EmergencyContact{
			Name:         c.Name,
			Phone:        c.Phone,
			Relationship: c.Relationship,
			Priority:     c.Priority,
		})
	}

	entry := domain.ChangeEntry{
		Timestamp:     time.Now(),
		Action:        "onboarding_completed",
		Details:       fmt.Sprintf("new family: %d campers, %d extra contacts", len(campers), len(contacts)),
		ChangedBy:     user.Email,
		RelatedEmails: []string{user.Email},
	}

	created, err := s.repo.CompleteSignup(ctx, user, campers, contacts, entry)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, "", ErrUserEmailExists
		}
		return domain.User{}, "", fmt.Errorf("s.repo.CompleteSignup -> %w", err)
	}

	if err := s.store.DeleteWizard(ctx, id); err != nil {
		zap.L().Warn("failed to discard completed wizard", zap.String("wizard_id", id), zap.Error(err))
	}

	if err := s.mailer.SendWelcome(ctx, created.Email, created.Name); err != nil {
		zap.L().Warn("welcome email failed", zap.String("email", created.Email), zap.Error(err))
	}

	token, err := jwthelper.GenerateToken([]byte(s.signingKey), created.ID, userAgent)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return created, token, nil
}

func (s *OnboardingService) emailTaken(ctx context.Context) onboarding.EmailChecker {
	return func(email string) (bool, error) {
		_, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("s.users.FindByEmail -> %w", err)
		}
		return true, nil
	}
}
