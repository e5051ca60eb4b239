package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SendMessageRequest struct {
	Body string `json:"body"`
	// ParentID addresses the thread; only directors set it.
	ParentID uint `json:"parent_id,omitempty"`
}

func (req *SendMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Body, validation.Required, validation.Length(1, 5000)),
	)
}
