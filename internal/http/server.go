package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accountHTTP "github.com/allisson/tokengate/internal/account/http"
	authHTTP "github.com/allisson/tokengate/internal/auth/http"
	authUsecase "github.com/allisson/tokengate/internal/auth/usecase"
	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/metrics"
	tokenHTTP "github.com/allisson/tokengate/internal/token/http"
)

// Handlers groups the route handlers mounted by the server.
type Handlers struct {
	Account    *accountHTTP.AccountHandler
	Token      *tokenHTTP.TokenHandler
	Validation *tokenHTTP.ValidationHandler
	Permission *tokenHTTP.PermissionHandler
}

// Server is the main API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// NewServer creates a new API server with the base middleware chain
// installed. Routes are mounted separately via SetupRouter.
func NewServer(cfg *config.Config, logger *slog.Logger, metricsProvider *metrics.Provider) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		cfg:    cfg,
		logger: logger,
	}
}

// SetupRouter mounts all API routes.
//
// Three authentication tiers:
//   - unauthenticated: registration (IP rate limited), validation (the bearer
//     token under test is the credential), and the permission catalogue
//   - signed: everything that manages accounts or tokens requires an
//     HMAC-signed request, optionally rate limited per account
//   - health/readiness: unauthenticated infrastructure probes
func (s *Server) SetupRouter(ctx context.Context, handlers Handlers, authUC authUsecase.AuthUseCase) {
	s.router.GET("/health", gin.WrapH(HealthHandler()))
	s.router.GET("/ready", gin.WrapH(ReadinessHandler(ctx)))

	api := s.router.Group("/api/v2")

	register := api.Group("")
	if s.cfg.RateLimitRegisterEnabled {
		register.Use(authHTTP.IPRateLimitMiddleware(
			s.cfg.RateLimitRegisterRequestsPerSec,
			s.cfg.RateLimitRegisterBurst,
			s.logger,
		))
	}
	register.POST("/accounts/register", handlers.Account.RegisterHandler)

	api.POST("/validate", handlers.Validation.ValidateHandler)
	api.GET("/permissions", handlers.Permission.ListHandler)

	signed := api.Group("", authHTTP.HMACAuthMiddleware(authUC, s.logger))
	if s.cfg.RateLimitEnabled {
		signed.Use(authHTTP.RateLimitMiddleware(
			s.cfg.RateLimitRequestsPerSec,
			s.cfg.RateLimitBurst,
			s.logger,
		))
	}

	signed.POST("/accounts/regenerate-sk", handlers.Account.RotateSecretKeyHandler)
	signed.GET("/accounts/me", handlers.Account.MeHandler)

	signed.POST("/tokens", handlers.Token.CreateHandler)
	signed.GET("/tokens", handlers.Token.ListHandler)
	signed.GET("/tokens/:id", handlers.Token.GetHandler)
	signed.PUT("/tokens/:id/status", handlers.Token.UpdateStatusHandler)
	signed.DELETE("/tokens/:id", handlers.Token.DeleteHandler)
	signed.GET("/tokens/:id/stats", handlers.Token.StatsHandler)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
