package handler

import (
	"github.com/ferdousr3/manage-x/internal/auth/dto"
	"github.com/ferdousr3/manage-x/internal/auth/service"
	autherror "github.com/ferdousr3/manage-x/internal/errors"
	"github.com/ferdousr3/manage-x/internal/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	tokens      service.TokenGenerator
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, tokens service.TokenGenerator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		logger:      logger.Module(log, logger.ModuleAPI),
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	resp, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return h.serviceError(c, err, fiber.StatusUnauthorized)
	}

	return respondOK(c, fiber.StatusOK, "", resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	result, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return h.serviceError(c, err, fiber.StatusConflict)
	}

	// The verification token only travels through the notifier.
	return respondOK(c, fiber.StatusCreated, "Registration successful. Please verify your email.", result.User)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	resp, err := h.userService.RefreshTokens(c.UserContext(), input.RefreshToken)
	if err != nil {
		return h.serviceError(c, err, fiber.StatusUnauthorized)
	}

	return respondOK(c, fiber.StatusOK, "", resp)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, found := CurrentClaims(c)
	if !found {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	if err := h.userService.ChangePassword(c.UserContext(), claims.UserID(), input.CurrentPassword, input.NewPassword); err != nil {
		return h.serviceError(c, err, fiber.StatusUnauthorized)
	}

	return respondOK(c, fiber.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	if _, err := h.userService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return h.internalError(c, err)
	}

	return respondOK(c, fiber.StatusOK, "If the email exists, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	if err := h.userService.ResetPassword(c.UserContext(), input.Token, input.Password); err != nil {
		return h.serviceError(c, err, fiber.StatusBadRequest)
	}

	return respondOK(c, fiber.StatusOK, "Password reset successful", nil)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var input dto.VerifyEmailInput
	if err := c.QueryParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := input.Validate(); err != nil {
		return respondInvalid(c, err)
	}

	if err := h.userService.VerifyEmail(c.UserContext(), input.Token); err != nil {
		return h.serviceError(c, err, fiber.StatusBadRequest)
	}

	return respondOK(c, fiber.StatusOK, "Email verified successfully", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, found := CurrentClaims(c)
	if !found {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	profile, err := h.userService.GetProfile(c.UserContext(), claims.UserID())
	if err != nil {
		return h.serviceError(c, err, fiber.StatusNotFound)
	}

	return respondOK(c, fiber.StatusOK, "", profile)
}

// serviceError writes a business failure with the route's status and hides anything else
// behind a logged 500.
func (h *AuthHandler) serviceError(c *fiber.Ctx, err error, businessStatus int) error {
	if autherror.IsBusiness(err) {
		return respondError(c, businessStatus, err.Error())
	}
	return h.internalError(c, err)
}

func (h *AuthHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return respondError(c, fiber.StatusInternalServerError, msgInternalError)
}
