package client

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginPayload carries a credential exchange request.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// RegisterPayload carries an account creation request. UserType is the raw
// backend role code; the backend owns the vocabulary.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&p.UserType, validation.Required),
	)
}
