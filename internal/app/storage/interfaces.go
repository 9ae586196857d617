package storage

import (
	"context"
	"errors"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
)

// ErrNotFound is returned (possibly wrapped) when a record does not exist.
var ErrNotFound = errors.New("record not found")

// PriceConstraint restricts results by price.
type PriceConstraint int

const (
	PriceUnconstrained PriceConstraint = iota
	PriceZero
	PricePositive
)

// AssetFilter is a conjunction of predicates. Zero-valued fields impose no
// constraint. Text keeps assets whose title, description or tags match;
// Engine matches the primary engine or any compatible engine.
type AssetFilter struct {
	Text        string
	Category    string
	Engine      string
	SourceStore string
	Price       PriceConstraint
	CreatedBy   string
}

// SortField names the descending sort column.
type SortField int

const (
	SortByDownloads SortField = iota
	SortByCreatedAt
	SortByRating
)

// AssetQuery is a predicate plus an ordering. Equal sort values keep
// insertion order. Limit <= 0 returns every match.
type AssetQuery struct {
	Filter AssetFilter
	Sort   SortField
	Limit  int
}

// AssetStore persists asset records.
type AssetStore interface {
	CreateAsset(ctx context.Context, a asset.Asset) (asset.Asset, error)
	GetAsset(ctx context.Context, id string) (asset.Asset, error)
	FindAssets(ctx context.Context, q AssetQuery) ([]asset.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

// DefaultTimeout bounds a single store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// WithTimeout derives the context for one store call. A non-positive
// timeout selects DefaultTimeout.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
