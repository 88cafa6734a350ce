package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/ferdousr3/manage-x/internal/auth/service TokenGenerator

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ferdousr3/manage-x/config"
	"github.com/ferdousr3/manage-x/internal/auth/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// Purpose binds a token to the one operation that may consume it.
type Purpose string

const (
	PurposeAccess            Purpose = "access"
	PurposeRefresh           Purpose = "refresh"
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type TokenGenerator interface {
	GenerateAccessToken(user *domain.User) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	GenerateVerificationToken(userID, email string, ttl time.Duration) (string, error)
	GeneratePasswordResetToken(userID, email string) (string, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	VerifyVerificationToken(tokenString string) (*JWTCustomClaims, error)
	VerifyPasswordResetToken(tokenString string) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

// JWTCustomClaims is the payload of every token. Fields a purpose does not use are omitted.
type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Purpose   Purpose           `json:"purpose"`
	Email     string            `json:"email,omitempty"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	Status    domain.UserStatus `json:"status,omitempty"`
}

// UserID is the token subject.
func (c *JWTCustomClaims) UserID() string {
	return c.Subject
}

type TokenService struct {
	keys               map[Purpose][]byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ResetTokenExpiry   time.Duration
	now                func() time.Time
}

// NewTokenService gives every purpose its own HMAC key. Verification and reset keys
// come from their own secrets when configured, otherwise they are derived from the
// refresh secret with HKDF so no two purposes ever share key material.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	verificationKey, err := purposeKey(cfg.VerificationTokenSecret, cfg.RefreshTokenSecret, PurposeEmailVerification)
	if err != nil {
		return nil, err
	}
	resetKey, err := purposeKey(cfg.ResetTokenSecret, cfg.RefreshTokenSecret, PurposePasswordReset)
	if err != nil {
		return nil, err
	}

	return &TokenService{
		keys: map[Purpose][]byte{
			PurposeAccess:            []byte(cfg.AccessTokenSecret),
			PurposeRefresh:           []byte(cfg.RefreshTokenSecret),
			PurposeEmailVerification: verificationKey,
			PurposePasswordReset:     resetKey,
		},
		AccessTokenExpiry:  cfg.AccessTokenTTL(),
		RefreshTokenExpiry: cfg.RefreshTokenTTL(),
		ResetTokenExpiry:   cfg.ResetTokenTTL(),
		now:                time.Now,
	}, nil
}

func purposeKey(secret, fallback string, purpose Purpose) ([]byte, error) {
	if secret != "" {
		return []byte(secret), nil
	}
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, []byte(fallback), nil, []byte("manage-x/"+string(purpose)))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

func (ts *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	return ts.sign(JWTCustomClaims{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Status:    user.Status,
	}, user.ID, PurposeAccess, ts.AccessTokenExpiry)
}

func (ts *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return ts.sign(JWTCustomClaims{}, userID, PurposeRefresh, ts.RefreshTokenExpiry)
}

// GenerateVerificationToken lets the caller pick the lifetime; registration uses hours.
func (ts *TokenService) GenerateVerificationToken(userID, email string, ttl time.Duration) (string, error) {
	return ts.sign(JWTCustomClaims{Email: email}, userID, PurposeEmailVerification, ttl)
}

func (ts *TokenService) GeneratePasswordResetToken(userID, email string) (string, error) {
	return ts.sign(JWTCustomClaims{Email: email}, userID, PurposePasswordReset, ts.ResetTokenExpiry)
}

func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, PurposeAccess)
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, PurposeRefresh)
}

func (ts *TokenService) VerifyVerificationToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, PurposeEmailVerification)
}

func (ts *TokenService) VerifyPasswordResetToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, PurposePasswordReset)
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

func (ts *TokenService) sign(claims JWTCustomClaims, subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := ts.now()
	claims.Purpose = purpose
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.keys[purpose])
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return token, nil
}

// verify returns ErrTokenExpired only for tokens whose signature checked out;
// everything else (bad signature, wrong purpose, malformed) is ErrTokenInvalid.
func (ts *TokenService) verify(tokenString string, purpose Purpose) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return ts.keys[purpose], nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: purpose %q, want %q", ErrTokenInvalid, claims.Purpose, purpose)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return claims, nil
}
