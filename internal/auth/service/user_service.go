package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ferdousr3/manage-x/config"
	"github.com/ferdousr3/manage-x/internal/auth/domain"
	"github.com/ferdousr3/manage-x/internal/auth/dto"
	autherror "github.com/ferdousr3/manage-x/internal/errors"
	"github.com/ferdousr3/manage-x/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService runs the credential lifecycle: login, registration, refresh, password
// change and reset, and email verification. Expected failures come back as
// *autherror.AuthError; anything else is an infrastructure fault.
type UserService struct {
	repo     domain.UserRepository
	tokens   TokenGenerator
	hasher   domain.PasswordHasher
	notifier domain.Notifier
	logger   *zap.Logger

	verificationTTL time.Duration
	now             func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(
	repo domain.UserRepository,
	tokens TokenGenerator,
	hasher domain.PasswordHasher,
	notifier domain.Notifier,
	log *zap.Logger,
	cfg *config.Config,
) *UserService {
	return &UserService{
		repo:            repo,
		tokens:          tokens,
		hasher:          hasher,
		notifier:        notifier,
		logger:          logger.Module(log, logger.ModuleAuth),
		verificationTTL: cfg.VerificationTokenTTL(),
		now:             time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user == nil {
		// Burn a verify so a missing account costs the same as a wrong password.
		s.verifyDummy(input.Password)
		return nil, autherror.ErrInvalidCredentials
	}

	if user.Status.IsBanned() {
		return nil, autherror.ErrAccountBanned
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return nil, autherror.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, input.Password)
	}

	return s.issuePair(user)
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResult, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyRegistered
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Verified:     false,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store reports a concurrent registration of the same email as ErrEmailAlreadyRegistered.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyRegistered) {
			return nil, autherror.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateVerificationToken(user.ID, user.Email, s.verificationTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		s.logger.Warn("verification notification failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return &dto.RegisterResult{
		User:              dto.NewUserOutput(user),
		VerificationToken: token,
	}, nil
}

// RefreshTokens issues a fresh pair for a valid refresh token. Refresh tokens are
// stateless: the old one stays valid until it expires.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logRejectedToken(PurposeRefresh, err)
		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	if user.Status.IsBanned() {
		return nil, autherror.ErrAccountBanned
	}

	return s.issuePair(user)
}

func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	ok, err := s.hasher.Verify(user.PasswordHash, currentPassword)
	if err != nil {
		return fmt.Errorf("failed to verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return autherror.ErrIncorrectPassword
	}

	return s.setPassword(ctx, user.ID, newPassword)
}

// RequestPasswordReset looks the same to the caller whether or not the email is
// registered. Only a storage or signing fault surfaces as an error.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (*dto.PasswordResetResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		s.logger.Debug("password reset requested for unknown email")
		return &dto.PasswordResetResult{}, nil
	}

	token, err := s.tokens.GeneratePasswordResetToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user, token); err != nil {
		s.logger.Warn("password reset notification failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &dto.PasswordResetResult{Issued: true}, nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.VerifyPasswordResetToken(token)
	if err != nil {
		s.logRejectedToken(PurposePasswordReset, err)
		return autherror.ErrInvalidOrExpiredToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID())
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// VerifyEmail succeeds once per user. A replayed token is rejected by the user's
// state, not by the token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.VerifyVerificationToken(token)
	if err != nil {
		s.logRejectedToken(PurposeEmailVerification, err)
		return autherror.ErrInvalidOrExpiredToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID())
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}
	if user.Verified {
		return autherror.ErrEmailAlreadyVerified
	}

	marked, err := s.repo.MarkVerified(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if !marked {
		// lost the race to a concurrent verification
		return autherror.ErrEmailAlreadyVerified
	}

	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	out := dto.NewUserOutput(user)
	return &out, nil
}

// SetPassword overwrites the password of the account registered under email. It is
// the operator path and skips the current-password check.
func (s *UserService) SetPassword(ctx context.Context, email, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated, err := s.repo.UpdatePasswordByEmail(ctx, normalizeEmail(email), hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if !updated {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (s *UserService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserService) issuePair(user *domain.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserOutput(user),
	}, nil
}

// rehash upgrades a legacy or outdated hash after a successful login. Failure only costs
// the upgrade, never the login.
func (s *UserService) rehash(ctx context.Context, user *domain.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.repo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.PasswordHash = hash
	s.logger.Debug("password rehashed", zap.String("user_id", user.ID))
}

func (s *UserService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("manage-x-dummy-password")
		if err != nil {
			s.logger.Warn("dummy hash unavailable", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

func (s *UserService) logRejectedToken(purpose Purpose, err error) {
	reason := "invalid"
	if errors.Is(err, ErrTokenExpired) {
		reason = "expired"
	}
	s.logger.Debug("token rejected",
		zap.String("purpose", string(purpose)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}
