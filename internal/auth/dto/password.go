package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (in ChangePasswordInput) Validate() error {
	const msgNewShort = "New password must be at least 8 characters"
	return validation.ValidateStruct(&in,
		validation.Field(&in.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&in.NewPassword,
			validation.Required.Error(msgNewShort),
			validation.RuneLength(MinPasswordLength, 0).Error(msgNewShort),
		),
	)
}

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

func (in ForgotPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required.Error(msgInvalidEmail), is.Email.Error(msgInvalidEmail)),
	)
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (in ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Token, validation.Required.Error(msgTokenRequired)),
		validation.Field(&in.Password,
			validation.Required.Error(msgPasswordShort),
			validation.RuneLength(MinPasswordLength, 0).Error(msgPasswordShort),
		),
	)
}

// PasswordResetResult is what RequestPasswordReset hands back. Issued is internal
// and must never reach the client.
type PasswordResetResult struct {
	Issued bool `json:"-"`
}
