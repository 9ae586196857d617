package ownership

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	"github.com/R3E-Network/asset_catalog/internal/app/storage/memory"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// spyStore records delete calls on top of a memory store.
type spyStore struct {
	storage.AssetStore
	mu        sync.Mutex
	deletes   []string
	deleteErr error
	getErr    error
}

func (s *spyStore) GetAsset(ctx context.Context, id string) (asset.Asset, error) {
	if s.getErr != nil {
		return asset.Asset{}, s.getErr
	}
	return s.AssetStore.GetAsset(ctx, id)
}

func (s *spyStore) DeleteAsset(ctx context.Context, id string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, id)
	s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.AssetStore.DeleteAsset(ctx, id)
}

func newFixture(t *testing.T) (*spyStore, asset.Asset) {
	t.Helper()
	spy := &spyStore{AssetStore: memory.New()}
	created, err := spy.CreateAsset(context.Background(), asset.Asset{
		Title:     "Knight Pack",
		Category:  "Characters",
		CreatedBy: "owner",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return spy, created
}

func TestAuthorizeDelete(t *testing.T) {
	spy, created := newFixture(t)
	guard := New(spy, 0, logger.Discard())
	ctx := context.Background()

	got, err := guard.AuthorizeDelete(ctx, created.ID, "owner")
	if err != nil {
		t.Fatalf("owner should be authorized: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected asset %+v", got)
	}

	if _, err := guard.AuthorizeDelete(ctx, created.ID, "intruder"); !svcerrors.IsDenied(err) {
		t.Fatalf("expected denied, got %v", err)
	}
	if _, err := guard.AuthorizeDelete(ctx, uuid.NewString(), "owner"); !svcerrors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	if _, err := guard.AuthorizeDelete(ctx, "not-a-uuid", "owner"); !svcerrors.IsNotFound(err) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
	if _, err := guard.AuthorizeDelete(ctx, created.ID, ""); svcerrors.CodeOf(err) != svcerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty requester, got %v", err)
	}
}

func TestDeleteNeverCallsStoreWhenRejected(t *testing.T) {
	spy, created := newFixture(t)
	guard := New(spy, 0, logger.Discard())
	ctx := context.Background()

	for _, tc := range []struct{ id, requester string }{
		{created.ID, "intruder"},
		{uuid.NewString(), "owner"},
		{"123", "owner"},
	} {
		if err := guard.Delete(ctx, tc.id, tc.requester); err == nil {
			t.Fatalf("expected rejection for %+v", tc)
		}
	}
	if len(spy.deletes) != 0 {
		t.Fatalf("store delete called on rejected requests: %v", spy.deletes)
	}
	if _, err := spy.GetAsset(ctx, created.ID); err != nil {
		t.Fatalf("asset should survive: %v", err)
	}
}

func TestDeleteByOwner(t *testing.T) {
	spy, created := newFixture(t)
	guard := New(spy, 0, logger.Discard())
	ctx := context.Background()

	if err := guard.Delete(ctx, created.ID, "owner"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(spy.deletes) != 1 || spy.deletes[0] != created.ID {
		t.Fatalf("expected exactly one delete, got %v", spy.deletes)
	}
	if _, err := spy.GetAsset(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected asset gone, got %v", err)
	}
	if err := guard.Delete(ctx, created.ID, "owner"); !svcerrors.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestDeleteConcurrentRemovalMapsToNotFound(t *testing.T) {
	spy, created := newFixture(t)
	spy.deleteErr = storage.ErrNotFound
	guard := New(spy, 0, logger.Discard())

	if err := guard.Delete(context.Background(), created.ID, "owner"); !svcerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	spy, created := newFixture(t)
	spy.getErr = errors.New("connection reset")
	guard := New(spy, 0, logger.Discard())

	err := guard.Delete(context.Background(), created.ID, "owner")
	if svcerrors.CodeOf(err) != svcerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if len(spy.deletes) != 0 {
		t.Fatalf("delete should not run after a failed lookup")
	}
}
