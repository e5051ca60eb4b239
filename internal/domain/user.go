package domain

import "time"

const (
	RoleParent   = "parent"
	RoleDirector = "director"
)

// User is a portal account. Parents register themselves through onboarding;
// director accounts are provisioned by hand.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
