// Package trace provides request-scoped tracing values.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// Trace contains request tracing information.
type Trace struct {
	RequestID string
}

type traceKey struct{}

// WithTrace adds a Trace to context.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// Get returns the Trace from context, or nil.
func Get(ctx context.Context) *Trace {
	if v, ok := ctx.Value(traceKey{}).(*Trace); ok {
		return v
	}
	return nil
}

// GetRequestID returns the request id from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := Get(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// New creates a Trace with a generated request id.
func New() *Trace {
	return &Trace{RequestID: uuid.New().String()}
}
