package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/config"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest/handlers"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest/middleware"
	"github.com/lamvd/dnalab-gateway/internal/vnpay"
	"github.com/lamvd/dnalab-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting dnalab gateway",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	sampleRepo := postgres.NewSampleRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	tc := postgres.NewTransactionCoordinator(db)

	gateway, err := vnpay.NewGateway(cfg.VNPay)
	if err != nil {
		logger.Error("failed to initialize vnpay gateway", "error", err)
		os.Exit(1)
	}

	orderService := services.NewOrderService(orderRepo, paymentRepo, tc, logger)
	paymentService := services.NewPaymentService(orderService, gateway, logger)
	sampleService := services.NewSampleService(sampleRepo, tc, logger)
	resultService := services.NewResultService(orderService, tc, logger)
	queryService := services.NewQueryService(orderRepo, paymentRepo, sampleRepo, resultRepo)

	h := handlers.NewHandlers(
		orderService,
		paymentService,
		sampleService,
		resultService,
		queryService,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	expirationWorker := worker.NewExpirationWorker(
		paymentRepo,
		tc,
		cfg.Worker.Interval,
		cfg.Worker.PaymentTimeout,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go expirationWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
