package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/config"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/customer"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/dispatcher"
	httpserver "github.com/Shivay00001/fintech-payment-processing-gateway/internal/interfaces/http"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/metrics"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/payment"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/processor"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/webhook"
	"github.com/Shivay00001/fintech-payment-processing-gateway/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting payment gateway",
		zap.Int("port", cfg.Server.Port))

	// Register Prometheus metrics
	metrics.Register()

	// Initialize processor client
	processorClient := processor.NewClient(processor.Config{
		APIKey:  cfg.Processor.APIKey,
		BaseURL: cfg.Processor.BaseURL,
		Timeout: cfg.Processor.Timeout,
	}, logger)

	// Initialize services
	paymentService := payment.NewService(processorClient, logger)
	customerService := customer.NewService(processorClient, logger)

	// Initialize webhook pipeline: verifier, dispatcher, default handlers
	eventDispatcher := dispatcher.New(dispatcher.WithLogger(logger.Sugar()))
	webhook.RegisterDefaultHandlers(eventDispatcher, logger)

	verifier := webhook.NewVerifier(cfg.Webhook.Secret, cfg.Webhook.Tolerance)
	webhookHandler := webhook.NewHandler(verifier, eventDispatcher, logger)

	// Initialize HTTP server
	apiHandlers := httpserver.NewHandlers(paymentService, customerService, logger)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		WebhookPath:    cfg.Webhook.Path,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, apiHandlers, webhookHandler, logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
