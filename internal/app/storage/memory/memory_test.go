package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
)

func TestStore_AssetLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateAsset(ctx, asset.Asset{Title: "Knight", Tags: []string{"medieval"}, CreatedBy: "u1"})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected id and timestamps, got %#v", created)
	}

	got, err := store.GetAsset(ctx, created.ID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	got.Tags[0] = "mutated"
	again, _ := store.GetAsset(ctx, created.ID)
	if again.Tags[0] != "medieval" {
		t.Fatalf("store returned aliased slice")
	}

	if err := store.DeleteAsset(ctx, created.ID); err != nil {
		t.Fatalf("delete asset: %v", err)
	}
	if _, err := store.GetAsset(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.DeleteAsset(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStore_FindAssetsStableOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, a := range []asset.Asset{
		{ID: "a", Title: "Alpha", Downloads: 5},
		{ID: "b", Title: "Bravo", Downloads: 9},
		{ID: "c", Title: "Charlie", Downloads: 5},
		{ID: "d", Title: "Delta", Downloads: 5},
	} {
		if _, err := store.CreateAsset(ctx, a); err != nil {
			t.Fatalf("create %s: %v", a.ID, err)
		}
	}
	if err := store.DeleteAsset(ctx, "c"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	result, err := store.FindAssets(ctx, storage.AssetQuery{Sort: storage.SortByDownloads})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ids := make([]string, 0, len(result))
	for _, a := range result {
		ids = append(ids, a.ID)
	}
	want := []string{"b", "a", "d"}
	if len(ids) != len(want) {
		t.Fatalf("got %v want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v want %v", ids, want)
		}
	}
}

func TestStore_FindAssetsFilterAndLimit(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := New()
	ctx := context.Background()

	seed := []asset.Asset{
		{Title: "Orc Warrior", Category: "Characters", Engine: "Unity", Price: 0, CreatedBy: "u1", CreatedAt: base},
		{Title: "Forest Pack", Category: "Environments", Engines: []string{"Unity", "Godot"}, Price: 4.5, CreatedBy: "u2", CreatedAt: base.Add(time.Hour)},
		{Title: "Elf Archer", Category: "Characters", Engines: []string{"Godot"}, Price: 2, CreatedBy: "u1", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, a := range seed {
		if _, err := store.CreateAsset(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	unity, _ := store.FindAssets(ctx, storage.AssetQuery{Filter: storage.AssetFilter{Engine: "Unity"}})
	if len(unity) != 2 {
		t.Fatalf("expected 2 unity assets, got %d", len(unity))
	}

	paidChars, _ := store.FindAssets(ctx, storage.AssetQuery{Filter: storage.AssetFilter{Category: "Characters", Price: storage.PricePositive}})
	if len(paidChars) != 1 || paidChars[0].Title != "Elf Archer" {
		t.Fatalf("unexpected paid characters: %#v", paidChars)
	}

	newest, _ := store.FindAssets(ctx, storage.AssetQuery{Filter: storage.AssetFilter{CreatedBy: "u1"}, Sort: storage.SortByCreatedAt, Limit: 1})
	if len(newest) != 1 || newest[0].Title != "Elf Archer" {
		t.Fatalf("unexpected newest: %#v", newest)
	}

	text, _ := store.FindAssets(ctx, storage.AssetQuery{Filter: storage.AssetFilter{Text: "forest"}})
	if len(text) != 1 || text[0].Title != "Forest Pack" {
		t.Fatalf("unexpected text match: %#v", text)
	}
}

func TestStore_CustomTextMatcher(t *testing.T) {
	calls := 0
	store := New(WithTextMatcher(asset.TextMatcherFunc(func(a asset.Asset, q string) bool {
		calls++
		return a.Title == q
	})))
	ctx := context.Background()
	_, _ = store.CreateAsset(ctx, asset.Asset{Title: "exact"})
	_, _ = store.CreateAsset(ctx, asset.Asset{Title: "other"})

	result, err := store.FindAssets(ctx, storage.AssetQuery{Filter: storage.AssetFilter{Text: "exact"}})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(result) != 1 || calls != 2 {
		t.Fatalf("expected matcher consulted per record, got %d results %d calls", len(result), calls)
	}
}

func TestStore_HonorsCancelledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.FindAssets(ctx, storage.AssetQuery{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.CreateAsset(ctx, asset.Asset{Title: "x"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.FindAssets(ctx, storage.AssetQuery{})
		}()
	}
	wg.Wait()
	if store.Len() != 20 {
		t.Fatalf("expected 20 assets, got %d", store.Len())
	}
}
