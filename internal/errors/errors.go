package errors

import (
	"errors"
)

// Kind tags an expected business failure so the route layer can pick a status code.
type Kind int

const (
	KindAuthentication Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// AuthError is an expected outcome of an auth operation. Message is safe to show to clients.
type AuthError struct {
	Kind    Kind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials     = &AuthError{Kind: KindAuthentication, Message: "Invalid credentials"}
	ErrAccountBanned          = &AuthError{Kind: KindAuthentication, Message: "Account is banned"}
	ErrInvalidRefreshToken    = &AuthError{Kind: KindAuthentication, Message: "Invalid refresh token"}
	ErrIncorrectPassword      = &AuthError{Kind: KindAuthentication, Message: "Current password is incorrect"}
	ErrInvalidOrExpiredToken  = &AuthError{Kind: KindAuthentication, Message: "Invalid or expired token"}
	ErrUserNotFound           = &AuthError{Kind: KindNotFound, Message: "User not found"}
	ErrEmailAlreadyRegistered = &AuthError{Kind: KindConflict, Message: "Email already registered"}
	ErrEmailAlreadyVerified   = &AuthError{Kind: KindConflict, Message: "Email already verified"}
)

// IsBusiness reports whether err carries an AuthError anywhere in its chain.
func IsBusiness(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// KindOf returns the Kind of the first AuthError in err's chain, or 0.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
