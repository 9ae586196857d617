package app

import (
	"context"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/services/catalogue"
	"github.com/R3E-Network/asset_catalog/internal/app/services/ownership"
	"github.com/R3E-Network/asset_catalog/internal/app/services/publishing"
	"github.com/R3E-Network/asset_catalog/internal/app/services/stats"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	"github.com/R3E-Network/asset_catalog/internal/app/storage/memory"
	"github.com/R3E-Network/asset_catalog/internal/app/system"
	"github.com/R3E-Network/asset_catalog/internal/app/uploads"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// Stores encapsulates persistence dependencies. A nil asset store defaults
// to the in-memory implementation; a nil upload sink disables file uploads.
type Stores struct {
	Assets  storage.AssetStore
	Uploads uploads.Sink
}

// Option tunes the services built by New.
type Option func(*options)

type options struct {
	storeTimeout time.Duration
	estimator    stats.Estimator
}

// WithStoreTimeout bounds every store call made by the services.
func WithStoreTimeout(d time.Duration) Option {
	return func(o *options) { o.storeTimeout = d }
}

// WithEstimator replaces the view and like estimates on dashboards.
func WithEstimator(e stats.Estimator) Option {
	return func(o *options) { o.estimator = e }
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Assets     storage.AssetStore
	Uploads    uploads.Sink
	Catalogue  *catalogue.Service
	Publishing *publishing.Service
	Ownership  *ownership.Guard
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger, opts ...Option) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}
	cfg := options{storeTimeout: storage.DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if stores.Assets == nil {
		log.Warn("no asset store configured; using in-memory store")
		stores.Assets = memory.New()
	}

	var catalogueOpts []catalogue.Option
	if cfg.estimator != nil {
		catalogueOpts = append(catalogueOpts, catalogue.WithEstimator(cfg.estimator))
	}

	return &Application{
		manager:    system.NewManager(),
		log:        log,
		Assets:     stores.Assets,
		Uploads:    stores.Uploads,
		Catalogue:  catalogue.New(stores.Assets, cfg.storeTimeout, log, catalogueOpts...),
		Publishing: publishing.New(stores.Assets, cfg.storeTimeout, log),
		Ownership:  ownership.New(stores.Assets, cfg.storeTimeout, log),
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
