package publishing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/R3E-Network/asset_catalog/internal/app/storage/memory"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
	"github.com/R3E-Network/asset_catalog/pkg/testutil"
)

func TestServicePublish(t *testing.T) {
	store := memory.New()
	svc := New(store, time.Second, logger.Discard())

	created, err := svc.Publish(context.Background(), validSubmission(), "/uploads/x.zip", "user-1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("store did not assign identity: %+v", created)
	}
	if created.Downloads != 0 || created.Rating != 0 {
		t.Fatalf("expected zero counters: %+v", created)
	}

	stored, err := store.GetAsset(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CreatedBy != "user-1" {
		t.Fatalf("creator not persisted: %+v", stored)
	}
}

func TestServicePublishInvalidDoesNotStore(t *testing.T) {
	store := memory.New()
	svc := New(store, 0, logger.Discard())

	sub := validSubmission()
	sub.Category = "Weapons"
	if _, err := svc.Publish(context.Background(), sub, "", "user-1"); !svcerrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("invalid submission reached the store")
	}
}

func TestServicePublishStoreFailure(t *testing.T) {
	store := testutil.NewFaultyStore(nil)
	store.CreateErr = errors.New("connection refused")
	svc := New(store, 0, logger.Discard())
	_, err := svc.Publish(context.Background(), validSubmission(), "", "user-1")
	if svcerrors.CodeOf(err) != svcerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}

	store.CreateErr = context.DeadlineExceeded
	svc = New(store, 0, logger.Discard())
	_, err = svc.Publish(context.Background(), validSubmission(), "", "user-1")
	if !svcerrors.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !svcerrors.IsStoreUnavailable(err) {
		t.Fatalf("timeout should be a store unavailable variant")
	}
}
