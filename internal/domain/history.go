package domain

import "time"

// ChangeHistoryCap bounds the audit log; the oldest entries are trimmed when
// a new entry would exceed it.
const ChangeHistoryCap = 500

type ChangeEntry struct {
	ID            uint      `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	Details       string    `json:"details"`
	ChangedBy     string    `json:"changed_by"`
	RelatedEmails []string  `json:"related_emails,omitempty"`
}
