package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu     sync.RWMutex
	assets map[string]asset.Asset
	order  []string
	text   asset.TextMatcher
	now    func() time.Time
}

var _ storage.AssetStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTextMatcher replaces the free-text predicate.
func WithTextMatcher(m asset.TextMatcher) Option {
	return func(s *Store) {
		if m != nil {
			s.text = m
		}
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		assets: make(map[string]asset.Asset),
		text:   asset.TokenMatcher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssetStore implementation ---------------------------------------------------

func (s *Store) CreateAsset(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return asset.Asset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	} else if _, exists := s.assets[a.ID]; exists {
		return asset.Asset{}, fmt.Errorf("asset %s already exists", a.ID)
	}

	now := s.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a = a.Clone()

	s.assets[a.ID] = a
	s.order = append(s.order, a.ID)
	return a.Clone(), nil
}

func (s *Store) GetAsset(ctx context.Context, id string) (asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return asset.Asset{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return asset.Asset{}, fmt.Errorf("asset %s: %w", id, storage.ErrNotFound)
	}
	return a.Clone(), nil
}

func (s *Store) FindAssets(ctx context.Context, q storage.AssetQuery) ([]asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]asset.Asset, 0, len(s.order))
	for _, id := range s.order {
		a := s.assets[id]
		if q.Filter.Matches(a, s.text) {
			result = append(result, a.Clone())
		}
	}
	s.mu.RUnlock()

	storage.SortAssets(result, q.Sort)
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return fmt.Errorf("asset %s: %w", id, storage.ErrNotFound)
	}
	delete(s.assets, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored assets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}
