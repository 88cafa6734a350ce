package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ferdousr3/manage-x/internal/auth/domain"
	"github.com/ferdousr3/manage-x/internal/auth/dto"
	"github.com/ferdousr3/manage-x/internal/auth/service"
	autherror "github.com/ferdousr3/manage-x/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepo is an in-memory UserRepository for end-to-end flows through the real
// hasher and token codec.
type memRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*domain.User{}}
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return autherror.ErrEmailAlreadyRegistered
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *memRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = hash
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *memRepo) MarkVerified(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.Verified {
		return false, nil
	}
	u.Verified = true
	return true, nil
}

// capturingNotifier records the last token handed out per purpose.
type capturingNotifier struct {
	mu           sync.Mutex
	verification string
	reset        string
	resets       int
}

func (n *capturingNotifier) SendVerification(_ context.Context, _ *domain.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verification = token
	return nil
}

func (n *capturingNotifier) SendPasswordReset(_ context.Context, _ *domain.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset = token
	n.resets++
	return nil
}

type world struct {
	repo     *memRepo
	tokens   *service.TokenService
	notifier *capturingNotifier
	svc      *service.UserService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	cfg := testConfig()
	tokens, err := service.NewTokenService(cfg)
	require.NoError(t, err)

	w := &world{repo: newMemRepo(), tokens: tokens, notifier: &capturingNotifier{}}
	w.svc = service.NewUserService(w.repo, tokens, service.NewArgon2Hasher(fastParams), w.notifier, zap.NewNop(), cfg)
	return w
}

func (w *world) register(t *testing.T, email, password string) *dto.RegisterResult {
	t.Helper()
	result, err := w.svc.Register(context.Background(), dto.RegisterInput{
		Email: email, Password: password, FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	return result
}

func TestScenario_RegisterLoginChangePassword(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	reg := w.register(t, "a@x.com", "pw123456")
	assert.False(t, reg.User.Verified)

	resp, err := w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, resp.User.Status)

	_, err = w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "wrongpw"})
	assert.Equal(t, autherror.ErrInvalidCredentials, err)

	require.NoError(t, w.svc.ChangePassword(ctx, reg.User.ID, "pw123456", "newpw1234"))

	_, err = w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "pw123456"})
	assert.Equal(t, autherror.ErrInvalidCredentials, err)

	_, err = w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "newpw1234"})
	assert.NoError(t, err)
}

func TestProperty_LoginIssuesLiveTokensForRegisteredUser(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	pairs := map[string]string{
		"a@x.com":           "pw123456",
		"MiXeD@Example.org": "correct horse battery",
		"x+tag@x.io":        "ünïcødé-pässwörd",
	}

	for email, password := range pairs {
		reg := w.register(t, email, password)

		resp, err := w.svc.Login(ctx, dto.LoginInput{Email: email, Password: password})
		require.NoError(t, err, email)

		access, err := w.tokens.VerifyAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, access.UserID())
		assert.True(t, access.ExpiresAt.After(time.Now()))

		refresh, err := w.tokens.VerifyRefreshToken(resp.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, refresh.UserID())
		assert.True(t, refresh.ExpiresAt.After(time.Now()))
	}
}

func TestProperty_DuplicateRegistrationIsCaseInsensitive(t *testing.T) {
	w := newWorld(t)
	w.register(t, "a@x.com", "pw123456")

	_, err := w.svc.Register(context.Background(), dto.RegisterInput{
		Email: "A@X.COM", Password: "pw123456", FirstName: "A", LastName: "B",
	})
	assert.Equal(t, autherror.ErrEmailAlreadyRegistered, err)
}

func TestProperty_RefreshRoundTrip(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.register(t, "a@x.com", "pw123456")

	resp, err := w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	refreshed, err := w.svc.RefreshTokens(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	// An access token is not a refresh token.
	_, err = w.svc.RefreshTokens(ctx, resp.AccessToken)
	assert.Equal(t, autherror.ErrInvalidRefreshToken, err)
}

func TestProperty_PasswordResetRequestDoesNotRevealEmail(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.register(t, "a@x.com", "pw123456")

	known, knownErr := w.svc.RequestPasswordReset(ctx, "a@x.com")
	unknown, unknownErr := w.svc.RequestPasswordReset(ctx, "ghost@x.com")

	assert.NoError(t, knownErr)
	assert.NoError(t, unknownErr)
	assert.IsType(t, unknown, known)
	assert.Equal(t, 1, w.notifier.resets)
}

func TestProperty_ResetTokenCompletesReset(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	reg := w.register(t, "a@x.com", "pw123456")

	_, err := w.svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)

	// The verification token cannot stand in for a reset token.
	assert.Equal(t, autherror.ErrInvalidOrExpiredToken, w.svc.ResetPassword(ctx, reg.VerificationToken, "newpw1234"))

	require.NoError(t, w.svc.ResetPassword(ctx, w.notifier.reset, "newpw1234"))

	_, err = w.svc.Login(ctx, dto.LoginInput{Email: "a@x.com", Password: "newpw1234"})
	assert.NoError(t, err)
}

func TestProperty_VerifyEmailSucceedsExactlyOnce(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	reg := w.register(t, "a@x.com", "pw123456")
	assert.Equal(t, reg.VerificationToken, w.notifier.verification)

	require.NoError(t, w.svc.VerifyEmail(ctx, reg.VerificationToken))
	assert.Equal(t, autherror.ErrEmailAlreadyVerified, w.svc.VerifyEmail(ctx, reg.VerificationToken))

	profile, err := w.svc.GetProfile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, profile.Verified)
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	reg := w.register(t, "a@x.com", "pw123456")

	expiredVerification, err := w.tokens.GenerateVerificationToken(reg.User.ID, "a@x.com", -time.Second)
	require.NoError(t, err)
	assert.Equal(t, autherror.ErrInvalidOrExpiredToken, w.svc.VerifyEmail(ctx, expiredVerification))

	// Short-lived reset codec: the token is signed correctly but already past exp.
	expiring := *w.tokens
	expiring.ResetTokenExpiry = -time.Second
	expiredReset, err := expiring.GeneratePasswordResetToken(reg.User.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, autherror.ErrInvalidOrExpiredToken, w.svc.ResetPassword(ctx, expiredReset, "newpw1234"))
}
