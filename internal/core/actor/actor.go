// Package actor provides request-scoped actor identity.
// The actor id is opaque to the ledger: it is attributed to createdBy and
// audit records but never interpreted.
package actor

import (
	"context"
)

// Actor identifies who performs an operation.
type Actor struct {
	ID   string
	Name string
}

type actorKey struct{}

// WithActor adds the Actor to context.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// Get returns the Actor from context, or nil.
func Get(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetID returns the actor id from context or empty string.
func GetID(ctx context.Context) string {
	if a := Get(ctx); a != nil {
		return a.ID
	}
	return ""
}
