package dto

import (
	"time"

	"github.com/ferdousr3/manage-x/internal/auth/domain"
)

// UserOutput is the public projection of a user. The password hash never leaves the service.
type UserOutput struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	ProfilePhoto *string           `json:"profilePhoto"`
	Verified     bool              `json:"verified"`
	Status       domain.UserStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfilePhoto: u.ProfilePhoto,
		Verified:     u.Verified,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
	}
}
