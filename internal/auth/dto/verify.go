package dto

import validation "github.com/go-ozzo/ozzo-validation"

const msgTokenRequired = "Token is required"

type VerifyEmailInput struct {
	Token string `json:"token" query:"token"`
}

func (in VerifyEmailInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Token, validation.Required.Error(msgTokenRequired)),
	)
}
