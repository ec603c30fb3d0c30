package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/nursery/internal/nursery/clients"
	httpapi "github.com/aussiebroadwan/nursery/internal/nursery/http"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/service"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/internal/nursery/store/drivers/sqlite"
	"github.com/aussiebroadwan/nursery/pkg/cryptox"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the nursery service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	states statestore.Store
	redis  *redis.Client // nil unless STATE_STORE=redis
	keys   *ClientKeys

	registry            *clients.Registry
	profilesService     *service.ProfilesService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Partially opened resources are released when
// a later step fails.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "nursery",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initStateStore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keys, err := InitClientKeys(app.cfg, app.logger)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("failed to initialize client keys: %w", err)
	}
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves HTTP until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// server fails. It then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.housekeepingService.Start()

	app.logger.Info("nursery service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"state_store", app.cfg.StateStore,
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		app.logger.Info("shutdown requested", "cause", context.Cause(gCtx))
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown drains in-flight requests, closes every client runtime and then
// the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down nursery service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.registry.Close()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("nursery service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(fmt.Sprintf("file:%s", app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initStateStore picks where sign-ins are kept between requests.
func (app *Application) initStateStore() error {
	switch app.cfg.StateStore {
	case StateStoreRedis:
		opt, err := redis.ParseURL(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}

		app.redis = client
		app.states = statestore.NewRedis(client, statestore.DefaultRedisPrefix)
		app.logger.Info("identity state store ready", "backend", "redis", "addr", opt.Addr)
	default:
		app.states = statestore.NewMemory()
		app.logger.Info("identity state store ready", "backend", "memory")
	}
	return nil
}

// initServices builds the client registry and business services.
func (app *Application) initServices() {
	app.registry = clients.NewRegistry(clients.Options{
		Provider:       &identity.Provider{Credentials: app.db.Credentials()},
		States:         app.states,
		Profiles:       app.db.Profiles(),
		SessionTTL:     app.cfg.SessionTTL,
		ProfileTimeout: app.cfg.ProfileTimeout,
		Logger:         app.logger,
	})

	app.profilesService = &service.ProfilesService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}

	// Redis expires sign-ins on its own, so only the memory store is swept.
	var sweeper service.Sweeper
	if mem, ok := app.states.(*statestore.Memory); ok {
		sweeper = mem
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.registry,
		sweeper,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ClientIdleTimeout,
	)
}

// initHTTP builds the router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Signer,
		app.keys.Verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.states,
		app.logger,
	)

	router.Clients = app.registry
	router.ProfilesService = app.profilesService
	router.BootstrapService = app.bootstrapService
	router.LandingWait = app.cfg.LandingWait
	router.CookieSecure = app.cfg.CookieSecure
	router.ClientTokenTTL = app.cfg.SessionTTL
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
