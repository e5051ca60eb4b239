package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const dateFormat = "2006-01-02"

type CreateCamperRequest struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
	Grade     string `json:"grade"`
	Phone     string `json:"phone,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

func (req *CreateCamperRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Birthdate, validation.Required, validation.Date(dateFormat)),
	)
}

type UpdateCamperRequest struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Grade     string `json:"grade"`
	Phone     string `json:"phone,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

func (req *UpdateCamperRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Birthdate, validation.Required, validation.Date(dateFormat)),
	)
}
