// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditRepository "github.com/natterhq/natter/internal/audit/repository"
	auditUsecase "github.com/natterhq/natter/internal/audit/usecase"
	"github.com/natterhq/natter/internal/config"
	"github.com/natterhq/natter/internal/database"
	natterHTTP "github.com/natterhq/natter/internal/http"
	"github.com/natterhq/natter/internal/metrics"
	spaceRepository "github.com/natterhq/natter/internal/space/repository"
	spaceUsecase "github.com/natterhq/natter/internal/space/usecase"
	tokenRepository "github.com/natterhq/natter/internal/token/repository"
	tokenService "github.com/natterhq/natter/internal/token/service"
	tokenStore "github.com/natterhq/natter/internal/token/store"
	userRepository "github.com/natterhq/natter/internal/user/repository"
	userUsecase "github.com/natterhq/natter/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	tokenRepo  tokenRepository.TokenRepository
	tokenStore tokenStore.Store
	sweeper    *tokenStore.Sweeper

	userRepo    userUsecase.UserRepository
	userUseCase userUsecase.UseCase

	spaceRepo    spaceUsecase.SpaceRepository
	permRepo     spaceUsecase.PermissionRepository
	msgRepo      spaceUsecase.MessageRepository
	spaceUseCase spaceUsecase.UseCase

	auditRepo    auditUsecase.AuditRepository
	auditUseCase auditUsecase.UseCase

	httpServer    *natterHTTP.Server
	metricsServer *natterHTTP.MetricsServer

	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	tokenRepoInit       sync.Once
	tokenStoreInit      sync.Once
	sweeperInit         sync.Once
	userRepoInit        sync.Once
	userUseCaseInit     sync.Once
	spaceRepoInit       sync.Once
	permRepoInit        sync.Once
	msgRepoInit         sync.Once
	spaceUseCaseInit    sync.Once
	auditRepoInit       sync.Once
	auditUseCaseInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder
// is used when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (tokenRepository.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tokenRepo"] = fmt.Errorf("failed to get database for token repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.tokenRepo = tokenRepository.NewMySQLTokenRepository(db)
		case "postgres":
			c.tokenRepo = tokenRepository.NewPostgreSQLTokenRepository(db)
		default:
			c.initErrors["tokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["tokenRepo"]; exists {
		return nil, err
	}
	return c.tokenRepo, nil
}

// TokenStore returns the token store configured by TOKEN_STORE: the
// HMAC-wrapped database store by default, or the stateless store. Both are
// decorated with business metrics.
func (c *Container) TokenStore() (tokenStore.Store, error) {
	c.tokenStoreInit.Do(func() {
		store, err := c.initTokenStore()
		if err != nil {
			c.initErrors["tokenStore"] = err
			return
		}
		c.tokenStore = store
	})
	if err, exists := c.initErrors["tokenStore"]; exists {
		return nil, err
	}
	return c.tokenStore, nil
}

func (c *Container) initTokenStore() (tokenStore.Store, error) {
	secret := []byte(c.config.TokenSecretKey)

	var store tokenStore.Store
	switch c.config.TokenStoreKind {
	case "stateless":
		stateless, err := tokenStore.NewStatelessTokenStore(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to create stateless token store: %w", err)
		}
		store = stateless
	case "database":
		repo, err := c.TokenRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get token repository for token store: %w", err)
		}
		databaseStore := tokenStore.NewDatabaseTokenStore(repo, tokenService.NewIdentityService())
		hmacStore, err := tokenStore.NewHmacTokenStore(databaseStore, secret)
		if err != nil {
			return nil, fmt.Errorf("failed to create hmac token store: %w", err)
		}
		store = hmacStore
	default:
		return nil, fmt.Errorf("unsupported token store: %s", c.config.TokenStoreKind)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token store: %w", err)
	}
	return tokenStore.NewStoreWithMetrics(store, bm), nil
}

// Sweeper returns the expired-token sweeper. Only meaningful with the
// database token store; the stateless store has nothing to sweep.
func (c *Container) Sweeper() (*tokenStore.Sweeper, error) {
	c.sweeperInit.Do(func() {
		if c.config.TokenStoreKind != "database" {
			return
		}
		repo, err := c.TokenRepository()
		if err != nil {
			c.initErrors["sweeper"] = fmt.Errorf("failed to get token repository for sweeper: %w", err)
			return
		}
		c.sweeper = tokenStore.NewSweeper(repo, c.config.TokenSweepInterval, c.Logger())
	})
	if err, exists := c.initErrors["sweeper"]; exists {
		return nil, err
	}
	return c.sweeper, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["userRepo"]; exists {
		return nil, err
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get user repository for user use case: %w", err)
			return
		}
		useCase, err := userUsecase.NewUserUseCase(userRepo)
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to create user use case: %w", err)
			return
		}
		c.userUseCase = useCase
	})
	if err, exists := c.initErrors["userUseCase"]; exists {
		return nil, err
	}
	return c.userUseCase, nil
}

// SpaceRepository returns the space repository instance.
func (c *Container) SpaceRepository() (spaceUsecase.SpaceRepository, error) {
	c.spaceRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["spaceRepo"] = fmt.Errorf("failed to get database for space repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.spaceRepo = spaceRepository.NewMySQLSpaceRepository(db)
		case "postgres":
			c.spaceRepo = spaceRepository.NewPostgreSQLSpaceRepository(db)
		default:
			c.initErrors["spaceRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["spaceRepo"]; exists {
		return nil, err
	}
	return c.spaceRepo, nil
}

// PermissionRepository returns the permission repository instance.
func (c *Container) PermissionRepository() (spaceUsecase.PermissionRepository, error) {
	c.permRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["permRepo"] = fmt.Errorf("failed to get database for permission repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.permRepo = spaceRepository.NewMySQLPermissionRepository(db)
		case "postgres":
			c.permRepo = spaceRepository.NewPostgreSQLPermissionRepository(db)
		default:
			c.initErrors["permRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["permRepo"]; exists {
		return nil, err
	}
	return c.permRepo, nil
}

// MessageRepository returns the message repository instance.
func (c *Container) MessageRepository() (spaceUsecase.MessageRepository, error) {
	c.msgRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["msgRepo"] = fmt.Errorf("failed to get database for message repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.msgRepo = spaceRepository.NewMySQLMessageRepository(db)
		case "postgres":
			c.msgRepo = spaceRepository.NewPostgreSQLMessageRepository(db)
		default:
			c.initErrors["msgRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["msgRepo"]; exists {
		return nil, err
	}
	return c.msgRepo, nil
}

// SpaceUseCase returns the space use case instance, decorated with
// business metrics.
func (c *Container) SpaceUseCase() (spaceUsecase.UseCase, error) {
	c.spaceUseCaseInit.Do(func() {
		useCase, err := c.initSpaceUseCase()
		if err != nil {
			c.initErrors["spaceUseCase"] = err
			return
		}
		c.spaceUseCase = useCase
	})
	if err, exists := c.initErrors["spaceUseCase"]; exists {
		return nil, err
	}
	return c.spaceUseCase, nil
}

func (c *Container) initSpaceUseCase() (spaceUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for space use case: %w", err)
	}
	spaceRepo, err := c.SpaceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get space repository for space use case: %w", err)
	}
	permRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for space use case: %w", err)
	}
	msgRepo, err := c.MessageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get message repository for space use case: %w", err)
	}
	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for space use case: %w", err)
	}

	useCase := spaceUsecase.NewSpaceUseCase(txManager, spaceRepo, permRepo, msgRepo)
	return spaceUsecase.NewUseCaseWithMetrics(useCase, bm), nil
}

// AuditRepository returns the audit repository instance.
func (c *Container) AuditRepository() (auditUsecase.AuditRepository, error) {
	c.auditRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditRepo"] = fmt.Errorf("failed to get database for audit repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auditRepo = auditRepository.NewMySQLAuditRepository(db)
		case "postgres":
			c.auditRepo = auditRepository.NewPostgreSQLAuditRepository(db)
		default:
			c.initErrors["auditRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["auditRepo"]; exists {
		return nil, err
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit use case instance.
func (c *Container) AuditUseCase() (auditUsecase.UseCase, error) {
	c.auditUseCaseInit.Do(func() {
		auditRepo, err := c.AuditRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf("failed to get audit repository for audit use case: %w", err)
			return
		}
		c.auditUseCase = auditUsecase.NewAuditUseCase(auditRepo)
	})
	if err, exists := c.initErrors["auditUseCase"]; exists {
		return nil, err
	}
	return c.auditUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.sweeper != nil {
		c.sweeper.Stop()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

// initLogger creates a structured JSON logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
