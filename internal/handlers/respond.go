package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Guards are the auth middlewares handlers attach to protected routes.
type Guards struct {
	Auth     fiber.Handler
	Admin    fiber.Handler
	Optional fiber.Handler
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPincodeFormat),
		errors.Is(err, services.ErrPincodeNotServiceable),
		errors.Is(err, services.ErrCouponNotApplicable),
		errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a service error onto the HTTP taxonomy. Internal errors
// are logged and answered with fallback only.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(fallback)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": fallback,
		})
	}

	body := fiber.Map{
		"success": false,
		"message": err.Error(),
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	log.Debug().Err(err).Str("path", c.Path()).Msg("invalid request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
	})
}

// flexString decodes a JSON string or number into its text form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func intParam(c *fiber.Ctx, name string) (int, error) {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, &services.ValidationError{Field: name, Message: "must be an integer"}
	}
	return n, nil
}
