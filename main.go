package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookmyflower/internal/config"
	"bookmyflower/internal/logging"
	"bookmyflower/internal/models"
	"bookmyflower/internal/notify"
	"bookmyflower/internal/repositories"
	"bookmyflower/internal/server"
	"bookmyflower/internal/services"
	"bookmyflower/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// stores is the set of repositories selected by DB_DRIVER.
type stores struct {
	coupons  repositories.CouponRepository
	pincodes repositories.PincodeRepository
	orders   repositories.OrderRepository
	users    repositories.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Repositories ---
	st, mongoClient, err := openStores(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to initialize storage")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, pincode lookups will fall through to the store")
		}
		st.pincodes = repositories.NewCachedPincodeRepository(st.pincodes, rdb, cfg.Redis.PincodeTTL)
	}

	// --- Notifications ---
	composer, err := notify.NewComposer(cfg.Mail.From, cfg.Mail.AdminNotify, cfg.Mail.FrontendURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load email templates")
	}

	var mqClient *rabbitmq.Client
	var sender notify.Sender
	switch cfg.Mail.Transport {
	case "smtp":
		sender = notify.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Username, cfg.Mail.Password)
	case "queue":
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queues: []string{notify.EmailQueue}})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ client")
		}
		sender = notify.NewQueueSender(mqClient)

		smtp := notify.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Username, cfg.Mail.Password)
		dispatcher := notify.NewDispatcher(smtp, cfg.Mail.Timeout)
		if err := dispatcher.Run(ctx, mqClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to start email consumer")
		}
		log.Info().Str("queue", notify.EmailQueue).Msg("Email consumer started")
	default:
		sender = notify.LogSender{}
	}
	notifier := services.NewNotifier(sender, cfg.Mail.Timeout)

	// --- Services ---
	couponService := services.NewCouponService(st.coupons)
	pincodeService := services.NewPincodeService(st.pincodes)
	authService := services.NewAuthService(st.users, services.AuthOptions{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
	}, composer, notifier)
	orderService := services.NewOrderService(st.orders, couponService, pincodeService, composer, notifier, services.OrderOptions{
		EnforcePincode: cfg.Order.EnforcePincode,
		StrictStatus:   cfg.Order.StrictStatus,
	})

	if cfg.SeedDemo {
		seedDemoData(ctx, couponService, pincodeService)
	}

	app := server.NewApp(server.Services{
		Auth:     authService,
		Coupons:  couponService,
		Pincodes: pincodeService,
		Orders:   orderService,
	}, server.Options{
		UploadDir: cfg.UploadDir,
		AccessLog: true,
		HealthDetails: func() fiber.Map {
			return fiber.Map{
				"database": cfg.Database.Driver,
				"notify":   cfg.Mail.Transport,
				"cache":    rdb != nil,
			}
		},
	})

	// --- Start HTTP Server ---
	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("Starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	notifier.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing RabbitMQ client")
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(closeCtx); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from mongo")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing redis client")
		}
	}
	log.Info().Msg("Server gracefully stopped")
}

// openStores builds the repositories for the configured driver. The mongo
// client is returned so the caller can disconnect it on shutdown.
func openStores(ctx context.Context, cfg config.DatabaseConfig) (stores, *mongo.Client, error) {
	switch cfg.Driver {
	case "postgres", "sqlite":
		db, err := repositories.OpenGORM(cfg.Driver, cfg.DSN)
		if err != nil {
			return stores{}, nil, err
		}
		return stores{
			coupons:  repositories.NewGORMCouponRepository(db),
			pincodes: repositories.NewGORMPincodeRepository(db),
			orders:   repositories.NewGORMOrderRepository(db),
			users:    repositories.NewGORMUserRepository(db),
		}, nil, nil
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, db, err := repositories.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return stores{}, nil, err
		}
		return stores{
			coupons:  repositories.NewMongoCouponRepository(db),
			pincodes: repositories.NewMongoPincodeRepository(db),
			orders:   repositories.NewMongoOrderRepository(db),
			users:    repositories.NewMongoUserRepository(db),
		}, client, nil
	default:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return stores{
			coupons:  repositories.NewInMemoryCouponRepository(),
			pincodes: repositories.NewInMemoryPincodeRepository(),
			orders:   repositories.NewInMemoryOrderRepository(),
			users:    repositories.NewInMemoryUserRepository(),
		}, nil, nil
	}
}

// seedDemoData adds a serviceable pincode and a welcome coupon. Records that
// already exist are left alone.
func seedDemoData(ctx context.Context, coupons *services.CouponService, pincodes *services.PincodeService) {
	active := true
	if _, err := pincodes.CreatePincode(ctx, services.PincodeRequest{Pincode: "201301", IsActive: &active}); err != nil {
		logSeedError(err, "pincode 201301")
	} else {
		log.Info().Str("pincode", "201301").Msg("Seeded pincode")
	}

	maxDiscount := 500.0
	coupon := &models.CouponRequest{
		Code:              "WELCOME10",
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     10,
		ExpiryDate:        time.Now().AddDate(1, 0, 0),
		MinPurchaseAmount: 499,
		MaxDiscountAmount: &maxDiscount,
		IsActive:          &active,
	}
	if _, err := coupons.CreateCoupon(ctx, coupon); err != nil {
		logSeedError(err, "coupon "+coupon.Code)
	} else {
		log.Info().Str("code", coupon.Code).Msg("Seeded coupon")
	}
}

func logSeedError(err error, what string) {
	if errors.Is(err, services.ErrDuplicateKey) {
		log.Debug().Str("record", what).Msg("Seed record already exists")
		return
	}
	log.Error().Err(err).Str("record", what).Msg("Error seeding demo data")
}
