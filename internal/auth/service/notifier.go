package service

import (
	"context"
	"net/url"

	"github.com/ferdousr3/manage-x/internal/auth/domain"
	"go.uber.org/zap"
)

// LogNotifier writes verification and reset links to the log instead of sending mail.
type LogNotifier struct {
	frontendURL string
	logger      *zap.Logger
}

func NewLogNotifier(frontendURL string, logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{frontendURL: frontendURL, logger: logger}
}

func (n *LogNotifier) SendVerification(_ context.Context, user *domain.User, token string) error {
	n.logger.Info("email verification link",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("link", n.link("/verify-email", token)),
	)
	return nil
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, user *domain.User, token string) error {
	n.logger.Info("password reset link",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("link", n.link("/reset-password", token)),
	)
	return nil
}

func (n *LogNotifier) link(path, token string) string {
	return n.frontendURL + path + "?token=" + url.QueryEscape(token)
}
