package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateContactRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	Priority     int    `json:"priority"`
	Photo        string `json:"photo,omitempty"`
}

func (req *CreateContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Phone, validation.Required),
		validation.Field(&req.Relationship, validation.Required),
		validation.Field(&req.Priority, validation.Min(0)),
	)
}

type UpdateContactRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	Priority     int    `json:"priority"`
	Photo        string `json:"photo,omitempty"`
}

func (req *UpdateContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Relationship, validation.Required),
		validation.Field(&req.Priority, validation.Min(0)),
	)
}
