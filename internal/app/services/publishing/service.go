package publishing

import (
	"context"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/metrics"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// Service publishes new assets.
type Service struct {
	store   storage.AssetStore
	timeout time.Duration
	log     *logger.Logger
}

// New creates a publishing service. A non-positive timeout selects
// storage.DefaultTimeout.
func New(store storage.AssetStore, timeout time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("publishing")
	}
	return &Service{store: store, timeout: timeout, log: log}
}

// Publish normalizes the submission and persists it. fileRef is the
// reference returned by the upload sink, or empty when no file was sent.
func (s *Service) Publish(ctx context.Context, sub Submission, fileRef, creatorID string) (asset.Asset, error) {
	record, err := Normalize(sub, fileRef, creatorID)
	if err != nil {
		metrics.RecordPublish("invalid")
		return asset.Asset{}, err
	}

	callCtx, cancel := storage.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.store.CreateAsset(callCtx, record)
	if err != nil {
		svcErr := svcerrors.StoreUnavailable("create_asset", err)
		metrics.RecordPublish("failed")
		metrics.RecordStoreError("create_asset", string(svcErr.Code))
		s.log.WithError(err).
			WithField("created_by", record.CreatedBy).
			Error("store create failed")
		return asset.Asset{}, svcErr
	}

	metrics.RecordPublish("created")
	s.log.WithField("asset_id", created.ID).
		WithField("created_by", created.CreatedBy).
		WithField("category", created.Category).
		Info("asset published")
	return created, nil
}
