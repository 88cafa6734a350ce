package dto

import validation "github.com/go-ozzo/ozzo-validation"

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

func (in RefreshInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.RefreshToken, validation.Required.Error("Refresh token is required")),
	)
}
