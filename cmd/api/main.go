package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chirag847/kisaaan/api/routes"
	"github.com/chirag847/kisaaan/internal/auth"
	"github.com/chirag847/kisaaan/internal/contacts"
	"github.com/chirag847/kisaaan/internal/deals"
	"github.com/chirag847/kisaaan/internal/grains"
	"github.com/chirag847/kisaaan/internal/media"
	"github.com/chirag847/kisaaan/internal/payments"
	"github.com/chirag847/kisaaan/internal/users"
	"github.com/chirag847/kisaaan/pkg/config"
	"github.com/chirag847/kisaaan/pkg/db"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/metrics"
	"github.com/chirag847/kisaaan/pkg/migrate"
	"github.com/chirag847/kisaaan/pkg/razorpay"
	"github.com/chirag847/kisaaan/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	razorpayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap razorpay client", err)
		os.Exit(1)
	}

	storage, err := media.NewStorage(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(dbClient.DB()),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	grainsRepo := grains.NewRepository(dbClient.DB())
	grainsService, err := grains.NewService(grainsRepo, storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create grains service", err)
		os.Exit(1)
	}

	dealsRepo := deals.NewRepository(dbClient.DB())
	dealsService, err := deals.NewService(deals.ServiceParams{
		DB:         dbClient,
		Repo:       dealsRepo,
		GrainsRepo: grainsRepo,
		Flags:      cfg.FeatureFlags,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deals service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		DB:      dbClient,
		Repo:    dealsRepo,
		Gateway: razorpayClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	contactsService, err := contacts.NewService(contacts.NewRepository(dbClient.DB()), grainsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contacts service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			storage,
			authService,
			registerService,
			usersService,
			grainsService,
			dealsService,
			paymentsService,
			contactsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
