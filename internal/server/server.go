package server

import (
	"errors"
	"time"

	"bookmyflower/internal/handlers"
	"bookmyflower/internal/middleware"
	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     *services.AuthService
	Coupons  *services.CouponService
	Pincodes *services.PincodeService
	Orders   *services.OrderService
}

// Options tunes the HTTP app.
type Options struct {
	UploadDir     string
	AccessLog     bool
	HealthDetails func() fiber.Map
}

// NewApp builds the Fiber app with every route registered.
func NewApp(svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bookmyflower",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}

	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if opts.HealthDetails != nil {
			for k, v := range opts.HealthDetails() {
				body[k] = v
			}
		}
		return c.JSON(body)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guards := handlers.Guards{
		Auth:     middleware.AuthRequired(svc.Auth),
		Admin:    middleware.AdminRequired(svc.Auth),
		Optional: middleware.OptionalAuth(svc.Auth),
	}
	handlers.NewAuthHandler(svc.Auth, guards).RegisterRoutes(app)
	handlers.NewCouponHandler(svc.Coupons, guards).RegisterRoutes(app)
	handlers.NewPincodeHandler(svc.Pincodes, guards).RegisterRoutes(app)
	handlers.NewOrderHandler(svc.Orders, guards).RegisterRoutes(app)

	return app
}

// errorHandler keeps unmatched routes and panics in the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
