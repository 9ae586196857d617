// Package logging carries request-scoped identifiers through contexts and
// attaches them to log entries.
package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

type contextKey string

const (
	// TraceIDKey holds the request trace id.
	TraceIDKey contextKey = "trace_id"
	// UserIDKey holds the authenticated user id.
	UserIDKey contextKey = "user_id"
)

// NewTraceID returns a fresh random trace id.
func NewTraceID() string {
	return uuid.NewString()
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

// Entry returns a log entry carrying the trace and user ids found in ctx.
func Entry(ctx context.Context, log *logger.Logger) *logrus.Entry {
	fields := logrus.Fields{}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields["trace_id"] = traceID
	}
	if userID := GetUserID(ctx); userID != "" {
		fields["user_id"] = userID
	}
	return log.WithFields(fields)
}
