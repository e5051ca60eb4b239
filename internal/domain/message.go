package domain

import "time"

// Message is one entry in the thread between a parent and the camp director.
type Message struct {
	ID        uint       `json:"id"`
	ParentID  uint       `json:"parent_id"`
	Sender    string     `json:"sender"` // "parent" or "director"
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
