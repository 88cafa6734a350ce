package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/ferdousr3/manage-x/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// claimsKey is the fiber.Ctx Locals key holding the verified access-token claims.
const claimsKey = "authClaims"

// RequireAuth lets a request through only with a valid bearer access token and
// stores its claims for CurrentClaims.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, found := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !found {
			return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
		}

		claims, err := h.tokens.VerifyAccessToken(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, service.ErrTokenExpired) {
				reason = "expired"
			}
			h.logger.Debug("access token rejected", zap.String("reason", reason), zap.String("path", c.Path()))
			return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// CurrentClaims returns the identity RequireAuth attached to the request.
func CurrentClaims(c *fiber.Ctx) (*service.JWTCustomClaims, bool) {
	claims, found := c.Locals(claimsKey).(*service.JWTCustomClaims)
	return claims, found && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequestLogger writes one entry per request once the handler chain has finished.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}

		return err
	}
}

// ErrorHandler renders errors that escaped the handlers in the response envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return respondError(c, fe.Code, fe.Message)
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return respondError(c, fiber.StatusInternalServerError, msgInternalError)
	}
}

func NotFound(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusNotFound, "Not Found - "+c.Path())
}
