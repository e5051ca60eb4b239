package domain

// CampDate is a day camp runs, published by the office.
type CampDate struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Label string `json:"label,omitempty"`
}

// BlockedSession closes one half-day slot (field trips, holidays).
type BlockedSession struct {
	Date    string  `json:"date"`
	Session Session `json:"session"`
}

// GymRental is the rental calendar imported from the gym. When no row exists
// for a slot the gym is assumed available; the rental feed restricts, absence
// of data never does.
type GymRental struct {
	Date      string  `json:"date"`
	Session   Session `json:"session"`
	Available bool    `json:"available"`
}

// DayAvailability is one selectable camp day as shown to a parent.
type DayAvailability struct {
	Date   string    `json:"date"`
	Label  string    `json:"label,omitempty"`
	Open   []Session `json:"open_sessions"`
	Booked []Session `json:"booked_sessions,omitempty"`
}
