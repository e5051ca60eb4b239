package domain

import "time"

type Session string

const (
	SessionMorning   Session = "morning"
	SessionAfternoon Session = "afternoon"
)

// Sessions lists the two half-day slots of every camp day, in display order.
var Sessions = []Session{SessionMorning, SessionAfternoon}

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusApproved  RegistrationStatus = "approved"
	StatusCancelled RegistrationStatus = "cancelled"
	StatusRejected  RegistrationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentSent      PaymentStatus = "sent"
	PaymentPaid      PaymentStatus = "paid"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// Registration is one camper on one camp day. Rows sharing an OrderID were
// submitted together and carry the same VenmoCode. Rows are append-only by
// convention: only Status and PaymentStatus ever change in place, and an
// edited order cancels its old rows rather than rewriting them.
type Registration struct {
	ID             string             `json:"id"`
	OrderID        string             `json:"order_id"`
	CamperID       uint               `json:"camper_id"`
	Date           string             `json:"date"` // YYYY-MM-DD
	Sessions       []Session          `json:"sessions"`
	Status         RegistrationStatus `json:"status"`
	PaymentStatus  PaymentStatus      `json:"payment_status"`
	AmountCents    int64              `json:"amount_cents"`
	DiscountCents  int64              `json:"discount_cents"`
	VenmoCode      string             `json:"venmo_code"`
	ReplacedByEdit bool               `json:"replaced_by_edit,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// DueCents is what this row still owes. Cancelled and rejected rows owe
// nothing regardless of payment state.
func (r *Registration) DueCents() int64 {
	if r.Status == StatusCancelled || r.Status == StatusRejected {
		return 0
	}
	if r.PaymentStatus == PaymentPaid || r.PaymentStatus == PaymentConfirmed {
		return 0
	}
	return r.AmountCents - r.DiscountCents
}

// AdvancePayment moves the payment state one legal step forward and reports
// whether the transition was legal. unpaid -> sent -> paid -> confirmed.
func (r *Registration) AdvancePayment(to PaymentStatus) bool {
	order := map[PaymentStatus]int{
		PaymentUnpaid:    0,
		PaymentSent:      1,
		PaymentPaid:      2,
		PaymentConfirmed: 3,
	}
	from, okFrom := order[r.PaymentStatus]
	next, okTo := order[to]
	if !okFrom || !okTo || next != from+1 {
		return false
	}
	r.PaymentStatus = to
	return true
}

// Order groups the registrations submitted together.
type Order struct {
	OrderID       string         `json:"order_id"`
	Registrations []Registration `json:"registrations"`
	TotalCents    int64          `json:"total_cents"`
	DiscountCents int64          `json:"discount_cents"`
	DueCents      int64          `json:"due_cents"`
	VenmoCode     string         `json:"venmo_code"`
}
