// File: cmd/verification-service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	postgresRepo "github.com/matchbook-rentals/verification-service/internal/domain/repository/postgres"
	redisRepo "github.com/matchbook-rentals/verification-service/internal/domain/repository/redis"
	"github.com/matchbook-rentals/verification-service/internal/events"
	"github.com/matchbook-rentals/verification-service/internal/events/kafka"
	httpHandler "github.com/matchbook-rentals/verification-service/internal/handler/http"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/credit"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/database/postgres"
	redisInfra "github.com/matchbook-rentals/verification-service/internal/infrastructure/database/redis"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/payment"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/screening"
	"github.com/matchbook-rentals/verification-service/internal/service"
	"github.com/matchbook-rentals/verification-service/internal/utils/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("service exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		zapLogger.Info("database migrations applied")
	}

	dbPool, err := postgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer dbPool.Close()

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer producer.Close()
		publisher = producer
	}

	// Repositories.
	userRepo := postgresRepo.NewUserRepositoryPostgres(dbPool)
	verifRepo := postgresRepo.NewVerificationRepositoryPostgres(dbPool)
	purchaseRepo := postgresRepo.NewPurchaseRepositoryPostgres(dbPool)
	creditReportRepo := postgresRepo.NewCreditReportRepositoryPostgres(dbPool)
	bgsReportRepo := postgresRepo.NewBGSReportRepositoryPostgres(dbPool)
	auditRepo := postgresRepo.NewAuditLogRepositoryPostgres(dbPool)
	sessionCache := redisRepo.NewSetupSessionCache(redisClient)

	// Vendor adapters.
	gateway := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret, zapLogger)
	screeningClient := screening.NewAccioClient(cfg.Screening, zapLogger)
	creditClient := credit.NewISoftPullClient(cfg.Credit, zapLogger)

	// Services.
	paymentService := service.NewPaymentService(gateway, userRepo, purchaseRepo, verifRepo, sessionCache, publisher, auditRepo, cfg.Payment, zapLogger)
	verificationService := service.NewVerificationService(gateway, creditClient, screeningClient, verifRepo, purchaseRepo, creditReportRepo, bgsReportRepo, publisher, auditRepo, zapLogger)
	webhookService := service.NewWebhookService(gateway, screeningClient, verifRepo, purchaseRepo, bgsReportRepo, publisher, auditRepo, zapLogger)

	cleanup := service.NewCleanupCron(verifRepo, cfg.Cleanup, zapLogger)
	if err := cleanup.Start(); err != nil {
		return fmt.Errorf("cleanup cron: %w", err)
	}
	defer cleanup.Stop()

	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		Config:              cfg,
		Logger:              zapLogger,
		PaymentHandler:      httpHandler.NewPaymentHandler(paymentService, zapLogger),
		VerificationHandler: httpHandler.NewVerificationHandler(verificationService, zapLogger),
		WebhookHandler:      httpHandler.NewWebhookHandler(webhookService, zapLogger),
		HealthHandler:       httpHandler.NewHealthHandler(dbPool, redisClient),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
