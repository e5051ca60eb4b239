package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/sunridge-camp/portal-api/internal/booking"
	"github.com/sunridge-camp/portal-api/internal/domain"
)

var errUnknownSession = errors.New("sessions must be morning or afternoon")

// SelectionPayload is the wire shape of a selection:
// {"2026-06-15": ["morning", "afternoon"], ...}
type SelectionPayload map[string][]string

func (p SelectionPayload) Validate() error {
	for date, sessions := range p {
		if err := validation.Validate(date, validation.Required, validation.Date(dateFormat)); err != nil {
			return err
		}
		for _, s := range sessions {
			if s != string(domain.SessionMorning) && s != string(domain.SessionAfternoon) {
				return errUnknownSession
			}
		}
	}
	return nil
}

// ToSelection converts the payload into selection state. Validate first.
func (p SelectionPayload) ToSelection() booking.Selection {
	sel := booking.NewSelection()
	for date, sessions := range p {
		set := make(map[domain.Session]bool, len(sessions))
		for _, s := range sessions {
			set[domain.Session(s)] = true
		}
		if len(set) > 0 {
			sel[date] = set
		}
	}
	return sel
}

type SaveDraftRequest struct {
	Selection SelectionPayload `json:"selection"`
}

func (req *SaveDraftRequest) Validate() error {
	return req.Selection.Validate()
}

type QuoteRequest struct {
	CamperIDs []uint           `json:"camper_ids"`
	Selection SelectionPayload `json:"selection"`
}

func (req *QuoteRequest) Validate() error {
	if err := validation.ValidateStruct(
		req,
		validation.Field(&req.CamperIDs, validation.Required),
	); err != nil {
		return err
	}
	return req.Selection.Validate()
}

type SubmitOrderRequest struct {
	CamperIDs []uint           `json:"camper_ids"`
	Selection SelectionPayload `json:"selection"`
}

func (req *SubmitOrderRequest) Validate() error {
	if err := validation.ValidateStruct(
		req,
		validation.Field(&req.CamperIDs, validation.Required),
		validation.Field(&req.Selection, validation.Required),
	); err != nil {
		return err
	}
	return req.Selection.Validate()
}

type PaymentSentRequest struct {
	Screenshot string `json:"screenshot,omitempty"` // base64, optional
}

func (req *PaymentSentRequest) Validate() error {
	return nil
}
