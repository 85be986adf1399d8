// Package audit defines the activity-trail contract for movement operations.
package audit

import (
	"context"
	"encoding/json"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAdjust Action = "adjust"
)

// Entry describes one audited operation.
type Entry struct {
	EntityType string
	EntityID   string
	Action     Action
	ActorID    string
	Changes    json.RawMessage
}

// Recorder persists audit entries. Recording is best-effort: callers log
// failures but never fail the business operation over them.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop is a Recorder that discards entries. Used in tests and tools.
type Nop struct{}

func (Nop) Record(ctx context.Context, entry Entry) error { return nil }
