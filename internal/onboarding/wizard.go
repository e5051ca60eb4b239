// Package onboarding implements the six-step account setup wizard. State
// lives server-side (Redis, via the draft store) so a parent can abandon the
// flow and resume it later from any device.
package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

type Step int

const (
	StepAccount  Step = 1
	StepCampers  Step = 2
	StepContacts Step = 3
	StepPayment  Step = 4
	StepPolicies Step = 5
	StepReview   Step = 6
)

const passwordPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

var passwordExp = regexp2.MustCompile(passwordPattern, regexp2.None)

var (
	ErrExited           = errors.New("wizard exited")
	ErrAlreadyCompleted = errors.New("wizard already completed")
	ErrSkipNotAllowed   = errors.New("skip to policies is only allowed from steps 2-4")

	errMissingAccountFields = &ValidationError{"name, email, phone and password are all required"}
	errInvalidPhone         = &ValidationError{"phone must be a 10-digit US number"}
	errInvalidPassword      = &ValidationError{"password must be at least 8 characters and contain a letter and a number"}
	errEmailTaken           = &ValidationError{"an account with this email already exists"}
	errNoCampers            = &ValidationError{"add at least one camper to continue"}
	errPoliciesUnaccepted   = &ValidationError{"both policies must be accepted to continue"}
)

// ValidationError marks a step failure the parent can correct, as opposed to
// an infrastructure failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

type AccountInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	PhotoB64 string `json:"photo_b64,omitempty"`
}

type CamperInput struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Grade     string `json:"grade"`
	Phone     string `json:"phone,omitempty"`
	PhotoB64  string `json:"photo_b64,omitempty"`
}

type ContactInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	Priority     int    `json:"priority"`
}

type PaymentInput struct {
	VenmoUsername string `json:"venmo_username,omitempty"`
}

type PolicyInput struct {
	LiabilityAccepted bool `json:"liability_accepted"`
	PickupAccepted    bool `json:"pickup_accepted"`
}

// State is the whole wizard. Step data accumulates as the parent moves
// forward; nothing is persisted to the main database until Complete.
type State struct {
	ID        string       `json:"id"`
	Step      Step         `json:"step"`
	Account   AccountInput `json:"account"`
	Campers   []CamperInput `json:"campers"`
	Contacts  []ContactInput `json:"contacts"`
	Payment   PaymentInput `json:"payment"`
	Policies  PolicyInput  `json:"policies"`
	Completed bool         `json:"completed"`
}

func NewState(id string) *State {
	return &State{ID: id, Step: StepAccount}
}

// EmailChecker reports whether an email already belongs to an account.
type EmailChecker func(email string) (bool, error)

// Next validates the current step and advances. On the final step it marks
// the wizard ready for completion instead of moving.
func (s *State) Next(emailTaken EmailChecker) error {
	if s.Completed {
		return ErrAlreadyCompleted
	}

	if err := s.ValidateStep(s.Step, emailTaken); err != nil {
		return err
	}

	if s.Step < StepReview {
		s.Step++
	}

	return nil
}

// Back moves one step back. From step 1 it reports ErrExited: the caller
// discards the wizard entirely.
func (s *State) Back() error {
	if s.Completed {
		return ErrAlreadyCompleted
	}
	if s.Step == StepAccount {
		return ErrExited
	}
	s.Step--
	return nil
}

// SkipToPolicies jumps from the optional middle steps straight to the policy
// gate. Steps 1, 5 and 6 cannot be skipped.
func (s *State) SkipToPolicies() error {
	if s.Completed {
		return ErrAlreadyCompleted
	}
	if s.Step < StepCampers || s.Step > StepPayment {
		return ErrSkipNotAllowed
	}
	if err := s.ValidateStep(s.Step, nil); err != nil {
		return err
	}
	s.Step = StepPolicies
	return nil
}

// ReadyToComplete reports whether every gating step has passed. Called before
// the batch account creation; the optional steps are re-checked because a
// resumed wizard may carry stale data.
func (s *State) ReadyToComplete(emailTaken EmailChecker) error {
	if s.Completed {
		return ErrAlreadyCompleted
	}
	for _, step := range []Step{StepAccount, StepCampers, StepContacts, StepPolicies} {
		if err := s.ValidateStep(step, emailTaken); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}

func (s *State) ValidateStep(step Step, emailTaken EmailChecker) error {
	switch step {
	case StepAccount:
		a := s.Account
		if a.Name == "" || a.Email == "" || a.Phone == "" || a.Password == "" {
			return errMissingAccountFields
		}
		if !ValidPhone(a.Phone) {
			return errInvalidPhone
		}
		if ok, _ := passwordExp.MatchString(a.Password); !ok {
			return errInvalidPassword
		}
		if emailTaken != nil {
			taken, err := emailTaken(a.Email)
			if err != nil {
				return fmt.Errorf("emailTaken -> %w", err)
			}
			if taken {
				return errEmailTaken
			}
		}
	case StepCampers:
		if len(s.Campers) == 0 {
			return errNoCampers
		}
	case StepContacts:
		// Optional step, but any contact that was added must be usable.
		for _, c := range s.Contacts {
			if !ValidPhone(c.Phone) {
				return fmt.Errorf("contact %q: %w", c.Name, errInvalidPhone)
			}
		}
	case StepPolicies:
		if !s.Policies.LiabilityAccepted || !s.Policies.PickupAccepted {
			return errPoliciesUnaccepted
		}
	}
	return nil
}

// ValidPhone accepts any formatting that strips down to exactly 10 digits.
func ValidPhone(phone string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return len(digits) == 10
}
