package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/ferdousr3/manage-x/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_notifier.go -package=mocks github.com/ferdousr3/manage-x/internal/auth/domain Notifier

import (
	"context"
	"time"
)

// UserRepository is the Credential Store. Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	// MarkVerified flips verified to true and reports whether this call did it.
	MarkVerified(ctx context.Context, userID string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
	NeedsRehash(hash string) bool
}

// Notifier delivers out-of-band tokens (verification and reset links) to the user.
type Notifier interface {
	SendVerification(ctx context.Context, user *User, token string) error
	SendPasswordReset(ctx context.Context, user *User, token string) error
}
