// Package http provides the HTTP server adapter for the gateway. It is a
// thin layer translating requests to service calls; it owns no payment
// logic.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/webhook"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	WebhookPath    string
	AllowedOrigins []string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		WebhookPath:    "/api/v1/webhooks/processor",
		AllowedOrigins: []string{"*"},
	}
}

// Server is the HTTP server adapter
type Server struct {
	config         ServerConfig
	httpServer     *http.Server
	router         *gin.Engine
	handlers       *Handlers
	webhookHandler *webhook.Handler
	logger         *zap.Logger
}

// NewServer creates a new HTTP server with the given handlers
func NewServer(config ServerConfig, handlers *Handlers, webhookHandler *webhook.Handler, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:         config,
		router:         gin.New(),
		handlers:       handlers,
		webhookHandler: webhookHandler,
		logger:         logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(CORS(s.config.AllowedOrigins))
	s.router.Use(Metrics())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The webhook route reads its own raw body; it must not share the
	// payments group's JSON binding.
	s.router.POST(s.config.WebhookPath, s.webhookHandler.Handle)

	api := s.router.Group("/api/v1")
	{
		payments := api.Group("/payments")
		{
			payments.POST("/intent", s.handlers.CreateIntent)
			payments.GET("", s.handlers.ListPayments)
			payments.GET("/:paymentId", s.handlers.GetPayment)
			payments.POST("/:paymentId/confirm", s.handlers.ConfirmPayment)
			payments.POST("/:paymentId/capture", s.handlers.CapturePayment)
			payments.POST("/:paymentId/refund", s.handlers.RefundPayment)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", s.handlers.CreateCustomer)
			customers.GET("/:customerId", s.handlers.GetCustomer)
			customers.PATCH("/:customerId", s.handlers.UpdateCustomer)
			customers.GET("/:customerId/payment-methods", s.handlers.ListPaymentMethods)
		}
	}
}

// Router exposes the underlying gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
