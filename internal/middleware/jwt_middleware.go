package middleware

import (
	"strings"

	"bookmyflower/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// TokenValidator is satisfied by *services.AuthService.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func storeClaims(c *fiber.Ctx, claims jwt.MapClaims) {
	for _, key := range []string{LocalUserID, LocalEmail, LocalRole} {
		if v, ok := claims[key].(string); ok {
			c.Locals(key, v)
		}
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// authenticate validates the bearer token and stores its claims. When it
// returns false the 401 response has already been written.
func authenticate(c *fiber.Ctx, auth TokenValidator) (bool, error) {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return false, unauthorized(c, "Authorization header is required")
	}
	tokenString, ok := bearerToken(c)
	if !ok {
		return false, unauthorized(c, "Authorization header format must be 'Bearer <token>'")
	}

	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
		return false, unauthorized(c, "Invalid or expired token")
	}

	storeClaims(c, claims)
	return true, nil
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := authenticate(c, auth); !ok {
			return err
		}
		return c.Next()
	}
}

// AdminRequired accepts only tokens carrying the admin role.
func AdminRequired(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := authenticate(c, auth); !ok {
			return err
		}
		if role, _ := c.Locals(LocalRole).(string); role != services.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// OptionalAuth stores the claims of a valid bearer token and otherwise lets
// the request through anonymously.
func OptionalAuth(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := auth.ValidateToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		return c.Next()
	}
}
