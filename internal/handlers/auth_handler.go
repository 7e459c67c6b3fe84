package handlers

import (
	"bookmyflower/internal/middleware"
	"bookmyflower/internal/models"
	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	guards      Guards
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, guards Guards) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guards:      guards,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgotpassword", h.HandleForgotPassword)
	authRoutes.Post("/resetpassword", h.HandleResetPassword)
	authRoutes.Post("/admin-login", h.HandleAdminLogin)
	authRoutes.Get("/verify-token", h.guards.Auth, h.HandleVerifyToken)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Authentication failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) HandleAdminLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	token, err := h.authService.AdminLogin(&req)
	if err != nil {
		return respondError(c, err, "Authentication failed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin login successful",
		"token":   token,
	})
}

// HandleForgotPassword always answers the same way, whether or not the
// account exists.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.authService.ForgotPassword(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Could not process password reset")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Could not reset password")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset successfully",
	})
}

// HandleVerifyToken echoes the identity of a valid token.
func (h *AuthHandler) HandleVerifyToken(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token is valid",
		"user": fiber.Map{
			"id":    c.Locals(middleware.LocalUserID),
			"email": c.Locals(middleware.LocalEmail),
			"role":  c.Locals(middleware.LocalRole),
		},
	})
}
