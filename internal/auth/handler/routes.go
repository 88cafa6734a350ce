package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/login", h.Login)
	auth.Post("/register", h.Register)
	auth.Post("/refresh-token", h.RefreshToken)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
	auth.Get("/verify-email", h.VerifyEmail)

	// Auth Gate protected
	auth.Post("/change-password", h.RequireAuth(), h.ChangePassword)
	auth.Get("/me", h.RequireAuth(), h.Me)
}
