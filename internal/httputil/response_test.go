package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/internal/logging"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{svcerrors.Validation("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{svcerrors.NotFound("asset", "x"), http.StatusNotFound, "NOT_FOUND"},
		{svcerrors.Denied("no"), http.StatusForbidden, "DENIED"},
		{svcerrors.StoreUnavailable("find_assets", errors.New("boom")), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{svcerrors.StoreUnavailable("find_assets", context.DeadlineExceeded), http.StatusServiceUnavailable, "STORE_TIMEOUT"},
		{svcerrors.InvalidToken(nil), http.StatusUnauthorized, "INVALID_TOKEN"},
		{svcerrors.RateLimitExceeded(5, "1s"), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{errors.New("unexpected"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
		if rec.Code != tt.status {
			t.Errorf("%v: status %d, want %d", tt.err, rec.Code, tt.status)
		}
		if body := decode(t, rec); body.Code != tt.code {
			t.Errorf("%v: code %q, want %q", tt.err, body.Code, tt.code)
		}
	}
}

func TestStoreFailureHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, nil, svcerrors.StoreUnavailable("get_asset", errors.New("password authentication failed")))
	body := decode(t, rec)
	if body.Message != "service unavailable" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Details != nil {
		t.Fatalf("details should be withheld, got %v", body.Details)
	}
}

func TestErrorCarriesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logging.WithTraceID(req.Context(), "trace-42"))
	rec := httptest.NewRecorder()
	Unauthorized(rec, req, "")

	body := decode(t, rec)
	if rec.Code != http.StatusUnauthorized || body.TraceID != "trace-42" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("missing content type")
	}
}
