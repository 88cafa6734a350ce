package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required.Error(msgInvalidEmail), is.Email.Error(msgInvalidEmail)),
		validation.Field(&in.Password, validation.Required.Error("Password is required")),
	)
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         UserOutput `json:"user"`
}
