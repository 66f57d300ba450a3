package app

import (
	"fmt"

	otelmetric "go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/natterhq/natter/internal/audit/http"
	authHTTP "github.com/natterhq/natter/internal/auth/http"
	natterHTTP "github.com/natterhq/natter/internal/http"
	spaceHTTP "github.com/natterhq/natter/internal/space/http"
	userHTTP "github.com/natterhq/natter/internal/user/http"
)

// HTTPServer returns the API HTTP server with all routes wired.
func (c *Container) HTTPServer() (*natterHTTP.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

func (c *Container) initHTTPServer() (*natterHTTP.Server, error) {
	logger := c.Logger()

	store, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for http server: %w", err)
	}
	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}
	spaces, err := c.SpaceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get space use case for http server: %w", err)
	}
	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for http server: %w", err)
	}

	var meterProvider otelmetric.MeterProvider
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}

	deps := natterHTTP.RouterDeps{
		Config:            c.config,
		Logger:            logger,
		MeterProvider:     meterProvider,
		TokenStore:        store,
		UserUseCase:       users,
		PermissionChecker: spaces,
		AuditUseCase:      audit,
		UserHandler:       userHTTP.NewUserHandler(users, logger),
		SessionHandler:    authHTTP.NewSessionHandler(store, users, c.config.TokenExpiration, logger),
		SpaceHandler:      spaceHTTP.NewSpaceHandler(spaces, logger),
		AuditHandler:      auditHTTP.NewAuditHandler(audit, logger),
	}

	return natterHTTP.NewServer(deps), nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*natterHTTP.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = natterHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}
