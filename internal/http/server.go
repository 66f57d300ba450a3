package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/natterhq/natter/internal/audit/http"
	auditUseCase "github.com/natterhq/natter/internal/audit/usecase"
	authHTTP "github.com/natterhq/natter/internal/auth/http"
	"github.com/natterhq/natter/internal/config"
	"github.com/natterhq/natter/internal/metrics"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
	spaceHTTP "github.com/natterhq/natter/internal/space/http"
	tokenStore "github.com/natterhq/natter/internal/token/store"
	userHTTP "github.com/natterhq/natter/internal/user/http"
	userUseCase "github.com/natterhq/natter/internal/user/usecase"
)

// RouterDeps carries everything the router needs to wire the pipeline.
type RouterDeps struct {
	Config            *config.Config
	Logger            *slog.Logger
	MeterProvider     otelmetric.MeterProvider
	TokenStore        tokenStore.Store
	UserUseCase       userUseCase.UseCase
	PermissionChecker authHTTP.PermissionChecker
	AuditUseCase      auditUseCase.UseCase
	UserHandler       *userHTTP.UserHandler
	SessionHandler    *authHTTP.SessionHandler
	SpaceHandler      *spaceHTTP.SpaceHandler
	AuditHandler      *auditHTTP.AuditHandler
}

// Server is the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server with its full middleware pipeline and
// route table.
func NewServer(deps RouterDeps) *Server {
	router := SetupRouter(deps)

	return &Server{
		router: router,
		logger: deps.Logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", deps.Config.ServerHost, deps.Config.ServerPort),
			Handler:      router,
			ReadTimeout:  deps.Config.ServerReadTimeout,
			WriteTimeout: deps.Config.ServerWriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine. Pipeline order matters: the throttle
// runs before everything, authentication resolves identity before the audit
// middleware records it, and the permission gates run after audit so denied
// requests still leave a trail.
func SetupRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if deps.MeterProvider != nil {
		router.Use(metrics.HTTPMiddleware(deps.MeterProvider, cfg.MetricsNamespace))
	}

	// Liveness probes bypass throttling, authentication and audit.
	router.GET("/health", healthHandler)
	router.GET("/ready", readyHandler)

	api := router.Group("/")

	if cfg.RateLimitEnabled {
		api.Use(GlobalRateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		api.Use(corsMiddleware)
	}
	api.Use(ContentTypeMiddleware(logger))
	api.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	api.Use(SecurityHeadersMiddleware())
	api.Use(authHTTP.AuthenticationMiddleware(deps.TokenStore, deps.UserUseCase, logger))
	api.Use(auditHTTP.AuditMiddleware(deps.AuditUseCase, logger))

	requireAuth := authHTTP.RequireAuthentication(logger)
	requireRead := authHTTP.RequirePermission(spaceDomain.CapabilityRead, deps.PermissionChecker, logger)
	requireWrite := authHTTP.RequirePermission(spaceDomain.CapabilityWrite, deps.PermissionChecker, logger)
	requireDelete := authHTTP.RequirePermission(spaceDomain.CapabilityDelete, deps.PermissionChecker, logger)
	requireAuditRead := authHTTP.RequirePermissionOnSpace(
		spaceDomain.AuditSpaceID,
		spaceDomain.CapabilityRead,
		deps.PermissionChecker,
		logger,
	)

	api.POST("/users", deps.UserHandler.RegisterUserHandler)

	sessionHandlers := []gin.HandlerFunc{deps.SessionHandler.CreateSessionHandler}
	if cfg.RateLimitLoginEnabled {
		sessionHandlers = append(
			[]gin.HandlerFunc{LoginRateLimitMiddleware(cfg.RateLimitLoginRequestsPerSec, cfg.RateLimitLoginBurst, logger)},
			sessionHandlers...,
		)
	}
	api.POST("/sessions", sessionHandlers...)
	api.DELETE("/sessions", requireAuth, deps.SessionHandler.DeleteSessionHandler)

	api.POST("/spaces", requireAuth, deps.SpaceHandler.CreateSpaceHandler)
	api.POST("/spaces/:spaceID/messages", requireWrite, deps.SpaceHandler.PostMessageHandler)
	api.GET("/spaces/:spaceID/messages", requireRead, deps.SpaceHandler.ListMessagesHandler)
	api.GET("/spaces/:spaceID/messages/:messageID", requireRead, deps.SpaceHandler.GetMessageHandler)
	api.POST("/spaces/:spaceID/members", requireDelete, deps.SpaceHandler.AddMemberHandler)

	api.GET("/logs", requireAuditRead, deps.AuditHandler.ListEntriesHandler)

	return router
}

// GetHandler returns the underlying handler for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
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

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func readyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
