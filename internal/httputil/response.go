// Package httputil writes the JSON envelopes shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/internal/logging"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	TraceID string         `json:"traceId,omitempty"`
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteErrorResponse writes an error envelope tagged with the request trace id.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	resp := ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
	if r != nil {
		resp.TraceID = logging.GetTraceID(r.Context())
	}
	WriteJSON(w, status, resp)
}

// WriteServiceError maps err to its status and envelope. Errors that are
// not service errors become a generic internal error; store failures never
// expose their cause.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := svcerrors.GetServiceError(err)
	if svcErr == nil {
		svcErr = svcerrors.Internal("internal error", err)
	}
	details := svcErr.Details
	if svcerrors.IsStoreUnavailable(svcErr) {
		details = nil
	}
	WriteErrorResponse(w, r, svcErr.HTTPStatus, string(svcErr.Code), svcErr.Message, details)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	WriteServiceError(w, r, svcerrors.Unauthorized(message))
}
