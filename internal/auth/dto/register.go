package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	msgInvalidEmail  = "Invalid email address"
	msgPasswordShort = "Password must be at least 8 characters"

	MinPasswordLength = 8
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required.Error(msgInvalidEmail), is.Email.Error(msgInvalidEmail)),
		validation.Field(&in.Password,
			validation.Required.Error(msgPasswordShort),
			validation.RuneLength(MinPasswordLength, 0).Error(msgPasswordShort),
		),
		validation.Field(&in.FirstName, validation.Required.Error("First name is required")),
		validation.Field(&in.LastName, validation.Required.Error("Last name is required")),
	)
}

// RegisterResult carries the verification token alongside the new user. The HTTP
// layer only exposes User; the token goes to the notifier.
type RegisterResult struct {
	User              UserOutput `json:"user"`
	VerificationToken string     `json:"verificationToken"`
}
