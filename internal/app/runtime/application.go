package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	app "github.com/R3E-Network/asset_catalog/internal/app"
	"github.com/R3E-Network/asset_catalog/internal/app/httpapi"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	"github.com/R3E-Network/asset_catalog/internal/app/storage/memory"
	"github.com/R3E-Network/asset_catalog/internal/app/storage/postgres"
	"github.com/R3E-Network/asset_catalog/internal/app/uploads"
	"github.com/R3E-Network/asset_catalog/internal/config"
	"github.com/R3E-Network/asset_catalog/internal/middleware"
	"github.com/R3E-Network/asset_catalog/internal/platform/database"
	"github.com/R3E-Network/asset_catalog/internal/platform/migrations"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	app        *app.Application
	httpServer *http.Server
	db         *sqlx.DB

	mu       sync.Mutex
	listener net.Listener
}

// NewApplication constructs the store, services and HTTP server described
// by cfg.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	})

	store, db, err := buildStore(context.Background(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure store: %w", err)
	}
	closeDB := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	sink, err := uploads.NewDiskSink(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, log)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("configure uploads: %w", err)
	}

	application, err := app.New(app.Stores{Assets: store, Uploads: sink}, log, app.WithStoreTimeout(cfg.Store.Timeout))
	if err != nil {
		closeDB()
		return nil, err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	if err := application.Attach(limiter); err != nil {
		closeDB()
		return nil, err
	}

	handler, err := httpapi.NewHandler(application, httpapi.Options{
		Auth:           middleware.NewAuthMiddleware([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, log),
		RateLimiter:    limiter,
		CORS:           middleware.NewCORSMiddleware(cfg.Server.AllowedOrigins),
		Logger:         log,
		UploadDir:      sink.Dir(),
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})
	if err != nil {
		closeDB()
		return nil, err
	}

	return &Application{
		cfg: cfg,
		log: log,
		app: application,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		db: db,
	}, nil
}

// App exposes the composed services.
func (a *Application) App() *app.Application {
	return a.app
}

// Handler exposes the HTTP handler, for tests and embedding.
func (a *Application) Handler() http.Handler {
	return a.httpServer.Handler
}

// Addr reports the bound address once Run has started listening.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run starts background services and the HTTP server, and blocks until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.httpServer.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", ln.Addr())
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown drains the HTTP server, stops background services and closes
// the database pool.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := a.app.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	return errors.Join(errs...)
}

// Migrate applies the schema to the configured PostgreSQL database.
func Migrate(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Apply(ctx, db)
}

func buildStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.AssetStore, *sqlx.DB, error) {
	switch strings.ToLower(cfg.Database.Driver) {
	case "", "memory":
		log.Warn("using in-memory asset store; data is lost on restart")
		return memory.New(), nil, nil
	case "postgres":
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return postgres.New(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
