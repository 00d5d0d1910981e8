package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"payhub/internal/adapter/http/routes"
	"payhub/internal/adapter/persistence/repository"
	"payhub/internal/infrastructure/config"
	"payhub/internal/infrastructure/database"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/infrastructure/metrics"
	"payhub/internal/infrastructure/payments"
	"payhub/internal/usecase"
	"payhub/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
)

// @title           Payhub Payment Gateway API
// @version         1.0
// @description     Multi-gateway payment creation and webhook reconciliation (Stripe, PayPal, GoPay).

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

func main() {
	if err := run(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("[main] fatal")
	}
}

func run() error {
	cfg := config.Load()
	logger.Init("payhub", cfg.IsDevelopment(), cfg.LogLevel)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var limiterRedis redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		defer client.Close()
		limiterRedis = client
	}

	gateways := payments.NewRegistryFromConfig(cfg)
	m := metrics.New()

	router, err := routes.NewRouter(routes.Dependencies{
		PaymentUseCase: usecase.NewPaymentUseCase(repo, gateways, m, cfg.GatewayTimeout),
		WebhookUseCase: usecase.NewWebhookUseCase(repo, gateways, m),
		Metrics:        m,
		RateLimit:      cfg.RateLimit,
		Redis:          limiterRedis,
	})
	if err != nil {
		return err
	}

	logger.Info(ctx).
		Str("store", cfg.Store.Driver).
		Bool("mock_gateways", cfg.MockGateways).
		Str("paypal_mode", cfg.PayPal.Mode).
		Str("gopay_mode", cfg.GoPay.Mode).
		Msg("[main] payhub starting")

	return routes.Run(ctx, ":"+cfg.Port, router)
}

// openStore connects the payment record store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (interfaces.IPaymentRecordRepository, func(), error) {
	if cfg.Store.Driver == config.StoreDriverDynamoDB {
		ddb, err := database.ConnectDynamoDB(ctx, cfg.Store)
		if err != nil {
			return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		return repository.NewPaymentRecordDynamoRepository(ddb, cfg.Store.DynamoTable), func() {}, nil
	}

	db, err := database.OpenGorm(cfg.Store, cfg.IsDevelopment() && cfg.LogLevel == "debug")
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	repo := repository.NewPaymentRecordGormRepository(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		_ = database.CloseGorm(db)
		return nil, nil, fmt.Errorf("migrate payments table: %w", err)
	}
	return repo, func() {
		if err := database.CloseGorm(db); err != nil {
			logger.Warn(ctx).Err(err).Msg("[main] close store")
		}
	}, nil
}
