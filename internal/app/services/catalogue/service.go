// Package catalogue answers discovery, dashboard and landing page queries.
package catalogue

import (
	"context"
	"strings"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/metrics"
	"github.com/R3E-Network/asset_catalog/internal/app/services/stats"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// LatestLimit is the number of recent assets on the home summary.
const LatestLimit = 6

// DashboardStats is a creator's rollup plus the per-asset breakdown.
type DashboardStats struct {
	stats.MetricsSummary
	Assets []stats.AssetView `json:"assets"`
}

// HomeSummary is the landing page payload.
type HomeSummary struct {
	TotalAssets    int           `json:"totalAssets"`
	TotalDownloads int64         `json:"totalDownloads"`
	Latest         []asset.Asset `json:"latest"`
}

// Service answers read queries over the catalogue.
type Service struct {
	store      storage.AssetStore
	timeout    time.Duration
	aggregator stats.Aggregator
	log        *logger.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithEstimator replaces the view and like estimates used by Dashboard.
func WithEstimator(e stats.Estimator) Option {
	return func(s *Service) {
		s.aggregator = stats.NewAggregator(e)
	}
}

// New creates a catalogue service. A non-positive timeout selects
// storage.DefaultTimeout.
func New(store storage.AssetStore, timeout time.Duration, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("catalogue")
	}
	s := &Service{
		store:      store,
		timeout:    timeout,
		aggregator: stats.NewAggregator(nil),
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns every asset matching opts in the requested order. The
// result is never nil.
func (s *Service) Search(ctx context.Context, opts asset.SearchOptions) ([]asset.Asset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.Normalized()

	results, err := s.find(ctx, "search", queryFor(opts))
	if err != nil {
		return nil, err
	}
	metrics.RecordSearch(string(opts.SortKey), len(results))
	s.log.WithField("sort", opts.SortKey).
		WithField("results", len(results)).
		Debug("catalogue search")
	return results, nil
}

// Mine lists the assets created by userID, newest first.
func (s *Service) Mine(ctx context.Context, userID string) ([]asset.Asset, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, svcerrors.Unauthorized("")
	}
	return s.find(ctx, "mine", storage.AssetQuery{
		Filter: storage.AssetFilter{CreatedBy: userID},
		Sort:   storage.SortByCreatedAt,
	})
}

// Dashboard aggregates the metrics of userID's assets.
func (s *Service) Dashboard(ctx context.Context, userID string) (DashboardStats, error) {
	owned, err := s.Mine(ctx, userID)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		MetricsSummary: s.aggregator.Aggregate(owned),
		Assets:         s.aggregator.Views(owned),
	}, nil
}

// HomeSummary reports catalogue totals and the most recent assets from a
// single store read.
func (s *Service) HomeSummary(ctx context.Context) (HomeSummary, error) {
	all, err := s.find(ctx, "home_summary", storage.AssetQuery{Sort: storage.SortByCreatedAt})
	if err != nil {
		return HomeSummary{}, err
	}
	summary := stats.Aggregate(all)
	latest := all
	if len(latest) > LatestLimit {
		latest = latest[:LatestLimit]
	}
	return HomeSummary{
		TotalAssets:    summary.TotalAssets,
		TotalDownloads: summary.TotalDownloads,
		Latest:         latest,
	}, nil
}

func (s *Service) find(ctx context.Context, op string, q storage.AssetQuery) ([]asset.Asset, error) {
	callCtx, cancel := storage.WithTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.store.FindAssets(callCtx, q)
	if err != nil {
		svcErr := svcerrors.StoreUnavailable("find_assets", err)
		metrics.RecordStoreError("find_assets", string(svcErr.Code))
		s.log.WithError(err).
			WithField("operation", op).
			Error("store query failed")
		return nil, svcErr
	}
	if results == nil {
		results = []asset.Asset{}
	}
	return results, nil
}

// queryFor translates normalized search options into a store query.
func queryFor(opts asset.SearchOptions) storage.AssetQuery {
	q := storage.AssetQuery{
		Filter: storage.AssetFilter{
			Text:        opts.FreeText,
			Category:    opts.Category,
			Engine:      opts.Engine,
			SourceStore: opts.SourceStore,
		},
	}
	switch opts.PriceBucket {
	case asset.PriceFree:
		q.Filter.Price = storage.PriceZero
	case asset.PricePaid:
		q.Filter.Price = storage.PricePositive
	}
	switch opts.SortKey {
	case asset.SortNewest:
		q.Sort = storage.SortByCreatedAt
	case asset.SortTop:
		q.Sort = storage.SortByRating
	default:
		q.Sort = storage.SortByDownloads
	}
	return q
}
