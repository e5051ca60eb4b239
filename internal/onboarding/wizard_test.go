package onboarding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() AccountInput {
	return AccountInput{
		Name:     "Dana Whitfield",
		Email:    "dana@example.com",
		Phone:    "(555) 201-3344",
		Password: "sunridge26",
	}
}

func emailFree(string) (bool, error) { return false, nil }

func TestNext_AccountStepValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AccountInput)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(a *AccountInput) { a.Name = "" },
			wantMsg: "name, email, phone and password are all required",
		},
		{
			name:    "phone too short",
			mutate:  func(a *AccountInput) { a.Phone = "555-0134" },
			wantMsg: "phone must be a 10-digit US number",
		},
		{
			name:    "password too short",
			mutate:  func(a *AccountInput) { a.Password = "abc123" },
			wantMsg: "password must be at least 8 characters and contain a letter and a number",
		},
		{
			name:    "password without digit",
			mutate:  func(a *AccountInput) { a.Password = "onlyletters" },
			wantMsg: "password must be at least 8 characters and contain a letter and a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState("w1")
			s.Account = validAccount()
			tt.mutate(&s.Account)

			err := s.Next(emailFree)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantMsg, vErr.Error())
			assert.Equal(t, StepAccount, s.Step)
		})
	}
}

func TestNext_EmailTaken(t *testing.T) {
	s := NewState("w1")
	s.Account = validAccount()

	err := s.Next(func(string) (bool, error) { return true, nil })

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepAccount, s.Step)
}

func TestNext_AdvancesThroughAllSteps(t *testing.T) {
	s := NewState("w1")
	s.Account = validAccount()
	s.Campers = []CamperInput{{Name: "Mia Whitfield", Birthdate: "2018-04-02", Grade: "2"}}
	s.Contacts = []ContactInput{{Name: "Rob Whitfield", Phone: "5552014455", Relationship: "uncle", Priority: 2}}
	s.Policies = PolicyInput{LiabilityAccepted: true, PickupAccepted: true}

	for _, want := range []Step{StepCampers, StepContacts, StepPayment, StepPolicies, StepReview} {
		require.NoError(t, s.Next(emailFree))
		assert.Equal(t, want, s.Step)
	}

	// On review, Next validates but no longer moves.
	require.NoError(t, s.Next(emailFree))
	assert.Equal(t, StepReview, s.Step)
}

func TestNext_RequiresAtLeastOneCamper(t *testing.T) {
	s := NewState("w1")
	s.Step = StepCampers

	err := s.Next(nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "add at least one camper to continue", vErr.Error())
}

func TestNext_ContactsMustHaveValidPhones(t *testing.T) {
	s := NewState("w1")
	s.Step = StepContacts
	s.Contacts = []ContactInput{{Name: "Rob", Phone: "12345", Relationship: "uncle"}}

	err := s.Next(nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), `contact "Rob"`)
}

func TestNext_PoliciesMustBothBeAccepted(t *testing.T) {
	s := NewState("w1")
	s.Step = StepPolicies
	s.Policies = PolicyInput{LiabilityAccepted: true}

	err := s.Next(nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "both policies must be accepted to continue", vErr.Error())
}

func TestBack(t *testing.T) {
	s := NewState("w1")
	s.Step = StepContacts

	require.NoError(t, s.Back())
	assert.Equal(t, StepCampers, s.Step)

	require.NoError(t, s.Back())
	assert.ErrorIs(t, s.Back(), ErrExited)
}

func TestSkipToPolicies(t *testing.T) {
	s := NewState("w1")
	assert.ErrorIs(t, s.SkipToPolicies(), ErrSkipNotAllowed)

	s.Step = StepCampers
	s.Campers = []CamperInput{{Name: "Mia"}}
	require.NoError(t, s.SkipToPolicies())
	assert.Equal(t, StepPolicies, s.Step)

	s.Step = StepPolicies
	assert.ErrorIs(t, s.SkipToPolicies(), ErrSkipNotAllowed)
}

func TestSkipToPolicies_ValidatesCurrentStep(t *testing.T) {
	s := NewState("w1")
	s.Step = StepCampers

	err := s.SkipToPolicies()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepCampers, s.Step)
}

func TestReadyToComplete(t *testing.T) {
	s := NewState("w1")
	s.Account = validAccount()
	s.Campers = []CamperInput{{Name: "Mia Whitfield", Birthdate: "2018-04-02", Grade: "2"}}
	s.Policies = PolicyInput{LiabilityAccepted: true, PickupAccepted: true}
	s.Step = StepReview

	require.NoError(t, s.ReadyToComplete(emailFree))

	// A resumed wizard with stale data fails even on the review step.
	s.Campers = nil
	err := s.ReadyToComplete(emailFree)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "step 2")
}

func TestCompletedWizardRejectsMutation(t *testing.T) {
	s := NewState("w1")
	s.Completed = true

	assert.ErrorIs(t, s.Next(nil), ErrAlreadyCompleted)
	assert.ErrorIs(t, s.Back(), ErrAlreadyCompleted)
	assert.ErrorIs(t, s.SkipToPolicies(), ErrAlreadyCompleted)
	assert.ErrorIs(t, s.ReadyToComplete(nil), ErrAlreadyCompleted)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("5552013344"))
	assert.True(t, ValidPhone("(555) 201-3344"))
	assert.False(t, ValidPhone("555-0134"))
	assert.False(t, ValidPhone("+1 555 201 3344")) // 11 digits
	assert.False(t, ValidPhone(""))
}

func TestNext_EmailCheckerFailureIsNotValidation(t *testing.T) {
	s := NewState("w1")
	s.Account = validAccount()

	boom := errors.New("redis down")
	err := s.Next(func(string) (bool, error) { return false, boom })

	require.ErrorIs(t, err, boom)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
}
