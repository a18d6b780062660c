package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/service"
	"github.com/retainly/churn/internal/infrastructure/config"
	"github.com/retainly/churn/internal/infrastructure/messaging"
	"github.com/retainly/churn/internal/infrastructure/ml"
	pgrepo "github.com/retainly/churn/internal/infrastructure/postgres"
	grpcpresentation "github.com/retainly/churn/internal/presentation/grpc"
	"github.com/retainly/churn/internal/presentation/rest"
	"github.com/retainly/churn/pkg/auth"
	"github.com/retainly/churn/pkg/kafka"
	"github.com/retainly/churn/pkg/observability"
	"github.com/retainly/churn/pkg/postgres"
)

const serviceName = "churn-service"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  "json",
		Service: serviceName,
	})
	slog.SetDefault(logger)

	logger.Info("starting churn-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(ctx)
	}

	// Initialize metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Load the model artifact. The service must not start without a model.
	forest, err := ml.LoadForest(cfg.ModelPath, logger)
	if err != nil {
		logger.Error("failed to load model artifact", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := postgres.NewPool(dbCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsURL); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Token service.
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	producer := kafka.NewProducer(kafka.Config{Brokers: []string{cfg.KafkaBroker}})
	defer producer.Close()

	predictionRepo := pgrepo.NewPredictionRepository(pool)
	userRepo := pgrepo.NewUserRepository(pool)
	eventPublisher := messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)

	// Wire domain services.
	encoder := service.NewFeatureEncoder()
	recommender := service.NewRecommender()

	// Wire use cases.
	predictUC := usecase.NewPredictCustomer(forest, encoder, recommender, predictionRepo, eventPublisher, logger)
	batchUC := usecase.NewBatchPredict(predictUC, logger)
	getPredictionUC := usecase.NewGetPrediction(predictionRepo)
	segmentsUC := usecase.NewGetSegments(predictionRepo)
	metricsUC := usecase.NewGetMetrics(predictionRepo)
	registerUC := usecase.NewRegisterUser(userRepo)
	loginUC := usecase.NewLoginUser(userRepo, tokens)
	listUsersUC := usecase.NewListUsers(userRepo)

	// gRPC server.
	grpcHandler := grpcpresentation.NewPredictionServiceHandler(predictUC, getPredictionUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, tokens)

	// HTTP server.
	router := rest.NewRouter(
		rest.NewAuthHandler(registerUC, loginUC, logger),
		rest.NewPredictionHandler(predictUC, batchUC, getPredictionUC, logger),
		rest.NewReportingHandler(segmentsUC, metricsUC, listUsersUC, logger),
		rest.NewHealthHandler(serviceName, pool, logger),
		metricsHandler,
		tokens,
		logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("churn-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down churn-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churn-service stopped")
}
