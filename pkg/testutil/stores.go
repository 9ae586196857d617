// Package testutil provides store doubles shared by the service and HTTP tests.
package testutil

import (
	"context"
	"sync"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	"github.com/R3E-Network/asset_catalog/internal/app/storage/memory"
)

// FaultyStore wraps an asset store and injects per-operation errors. A nil
// error passes the call through. Block makes every call wait for ctx
// cancellation instead.
type FaultyStore struct {
	storage.AssetStore

	mu        sync.Mutex
	CreateErr error
	GetErr    error
	FindErr   error
	DeleteErr error
	Block     bool
	calls     map[string]int
}

// NewFaultyStore wraps inner, or a fresh memory store when inner is nil.
func NewFaultyStore(inner storage.AssetStore) *FaultyStore {
	if inner == nil {
		inner = memory.New()
	}
	return &FaultyStore{AssetStore: inner, calls: make(map[string]int)}
}

// Calls reports how many times op ("create", "get", "find", "delete") ran.
func (f *FaultyStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyStore) enter(ctx context.Context, op string, injected error) error {
	f.mu.Lock()
	f.calls[op]++
	block := f.Block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return injected
}

func (f *FaultyStore) CreateAsset(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	if err := f.enter(ctx, "create", f.CreateErr); err != nil {
		return asset.Asset{}, err
	}
	return f.AssetStore.CreateAsset(ctx, a)
}

func (f *FaultyStore) GetAsset(ctx context.Context, id string) (asset.Asset, error) {
	if err := f.enter(ctx, "get", f.GetErr); err != nil {
		return asset.Asset{}, err
	}
	return f.AssetStore.GetAsset(ctx, id)
}

func (f *FaultyStore) FindAssets(ctx context.Context, q storage.AssetQuery) ([]asset.Asset, error) {
	if err := f.enter(ctx, "find", f.FindErr); err != nil {
		return nil, err
	}
	return f.AssetStore.FindAssets(ctx, q)
}

func (f *FaultyStore) DeleteAsset(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete", f.DeleteErr); err != nil {
		return err
	}
	return f.AssetStore.DeleteAsset(ctx, id)
}
