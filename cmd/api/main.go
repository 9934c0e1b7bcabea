package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pixelkeys/pixelkeys-backend/api/routes"
	"github.com/pixelkeys/pixelkeys-backend/internal/auth"
	"github.com/pixelkeys/pixelkeys-backend/internal/cart"
	"github.com/pixelkeys/pixelkeys-backend/internal/catalog"
	"github.com/pixelkeys/pixelkeys-backend/internal/keys"
	"github.com/pixelkeys/pixelkeys-backend/internal/orders"
	"github.com/pixelkeys/pixelkeys-backend/internal/payments"
	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	"github.com/pixelkeys/pixelkeys-backend/pkg/auth/session"
	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
	"github.com/pixelkeys/pixelkeys-backend/pkg/metrics"
	"github.com/pixelkeys/pixelkeys-backend/pkg/migrate"
	"github.com/pixelkeys/pixelkeys-backend/pkg/payments/mercadopago"
	"github.com/pixelkeys/pixelkeys-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gateway, err := mercadopago.NewClient(context.Background(), cfg.MercadoPago, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway client", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	userRepo := users.NewRepository(dbClient.DB())
	gameRepo := catalog.NewRepository(dbClient.DB())
	keyRepo := keys.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(gameRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore := cart.NewStore(redisClient, redisClient, cfg.Checkout.CartTTL)
	cartService, err := cart.NewService(cartStore, gameRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient, cartService, gameRepo, keyRepo, gateway, logg, httpMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	keyService, err := keys.NewService(keyRepo, gameRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create key service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(gateway, orderService, redisClient, cfg.Checkout.PaymentEventTTL, logg, httpMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, promRegistry, routes.Services{
			Auth:     authService,
			Users:    userService,
			Catalog:  catalogService,
			Cart:     cartService,
			Orders:   orderService,
			Keys:     keyService,
			Payments: paymentService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
