package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "payhub/docs"
	"payhub/internal/adapter/http/handlers"
	"payhub/internal/adapter/http/middleware"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/infrastructure/metrics"
	"payhub/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	PaymentUseCase usecase.IPaymentUseCase
	WebhookUseCase usecase.IWebhookUseCase
	Metrics        *metrics.Metrics

	// RateLimit uses the limiter notation ("300-M"); empty disables it.
	RateLimit string
	// Redis shares rate limit counters across instances when set.
	Redis redis.UniversalClient
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	router := gin.New()

	limit, err := middleware.RateLimit(deps.RateLimit, deps.Redis)
	if err != nil {
		return nil, err
	}
	setMiddlewares(router)

	addPublicRoutes(router)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	paymentHandler := handlers.NewPaymentHandler(deps.PaymentUseCase)
	webhookHandler := handlers.NewWebhookHandler(deps.WebhookUseCase)

	api := router.Group("/api")
	addPaymentRoutes(api, paymentHandler, limit)
	// Callbacks are not rate limited; a rejected delivery is only retried by the gateway.
	addWebhookRoutes(api, webhookHandler)

	return router, nil
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx).Str("addr", addr).Msg("[http] server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(ctx).Msg("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func setMiddlewares(router *gin.Engine) {
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
}
