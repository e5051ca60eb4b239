package domain

import "time"

// Camper is a child attending camp. Campers are linked to one or more parent
// accounts; a camper with no links is invisible to everyone and registrations
// keep camper rows alive as history.
type Camper struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Birthdate string    `json:"birthdate"` // YYYY-MM-DD
	Grade     string    `json:"grade"`
	Phone     string    `json:"phone,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
