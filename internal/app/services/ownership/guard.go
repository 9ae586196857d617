// Package ownership authorizes destructive operations on assets. Only the
// creator of an asset may remove it.
package ownership

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/metrics"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// Guard checks ownership before deleting.
type Guard struct {
	store   storage.AssetStore
	timeout time.Duration
	log     *logger.Logger
}

// New creates a guard over store.
func New(store storage.AssetStore, timeout time.Duration, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.NewDefault("ownership")
	}
	return &Guard{store: store, timeout: timeout, log: log}
}

// AuthorizeDelete returns the asset when requesterID created it. A malformed
// or unknown id is NotFound; another creator's asset is Denied.
func (g *Guard) AuthorizeDelete(ctx context.Context, assetID, requesterID string) (asset.Asset, error) {
	assetID = strings.TrimSpace(assetID)
	if _, err := uuid.Parse(assetID); err != nil {
		return asset.Asset{}, svcerrors.NotFound("asset", assetID)
	}
	if strings.TrimSpace(requesterID) == "" {
		return asset.Asset{}, svcerrors.Unauthorized("")
	}

	callCtx, cancel := storage.WithTimeout(ctx, g.timeout)
	defer cancel()

	record, err := g.store.GetAsset(callCtx, assetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return asset.Asset{}, svcerrors.NotFound("asset", assetID)
		}
		return asset.Asset{}, g.storeFailure("get_asset", assetID, err)
	}
	if record.CreatedBy != requesterID {
		return asset.Asset{}, svcerrors.Denied("only the creator can delete this asset").
			WithDetails("id", assetID)
	}
	return record, nil
}

// Delete authorizes and then removes the asset with a single store call.
// The store is never asked to delete on NotFound or Denied.
func (g *Guard) Delete(ctx context.Context, assetID, requesterID string) error {
	record, err := g.AuthorizeDelete(ctx, assetID, requesterID)
	if err != nil {
		metrics.RecordDelete(outcome(err))
		if svcerrors.IsDenied(err) {
			g.log.WithField("asset_id", assetID).
				WithField("requester_id", requesterID).
				Warn("delete denied")
		}
		return err
	}

	callCtx, cancel := storage.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.store.DeleteAsset(callCtx, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.RecordDelete("not_found")
			return svcerrors.NotFound("asset", record.ID)
		}
		metrics.RecordDelete("failed")
		return g.storeFailure("delete_asset", record.ID, err)
	}

	metrics.RecordDelete("deleted")
	g.log.WithField("asset_id", record.ID).
		WithField("created_by", record.CreatedBy).
		Info("asset deleted")
	return nil
}

func (g *Guard) storeFailure(op, assetID string, err error) error {
	svcErr := svcerrors.StoreUnavailable(op, err)
	metrics.RecordStoreError(op, string(svcErr.Code))
	g.log.WithError(err).
		WithField("asset_id", assetID).
		WithField("operation", op).
		Error("store call failed")
	return svcErr
}

func outcome(err error) string {
	switch svcerrors.CodeOf(err) {
	case svcerrors.CodeNotFound:
		return "not_found"
	case svcerrors.CodeDenied:
		return "denied"
	case svcerrors.CodeUnauthorized:
		return "unauthorized"
	default:
		return "failed"
	}
}
