package app

import (
	"context"
	"testing"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/services/publishing"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

type tenfold struct{}

func (tenfold) Views(d int64) int64 { return d * 10 }
func (tenfold) Likes(d int64) int64 { return d }

func TestNewDefaultsToMemoryStore(t *testing.T) {
	application, err := New(Stores{}, logger.Discard(), WithStoreTimeout(time.Second), WithEstimator(tenfold{}))
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	if application.Assets == nil || application.Uploads != nil {
		t.Fatalf("unexpected stores: %+v", application)
	}

	ctx := context.Background()
	if err := application.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer application.Stop(ctx)

	created, err := application.Publishing.Publish(ctx, publishing.Submission{
		Title:       "Pixel UI",
		Description: "Buttons and frames",
		Category:    "UI/UX",
		Tags:        publishing.Delimited("ui, pixel"),
	}, "", "user-1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	results, err := application.Catalogue.Search(ctx, asset.SearchOptions{FreeText: "pixel"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != created.ID {
		t.Fatalf("unexpected results %+v", results)
	}

	if _, err := application.Ownership.AuthorizeDelete(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := application.Ownership.Delete(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	dash, err := application.Catalogue.Dashboard(ctx, "user-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalAssets != 0 || dash.Assets == nil {
		t.Fatalf("expected empty dashboard, got %+v", dash)
	}
}
