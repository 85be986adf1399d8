// Package ledger reconstructs stock levels from the movement streams.
// It owns the single replay primitive shared by opening-quantity
// reconstruction and history assembly, so the two cannot drift apart.
package ledger

import (
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// EventType identifies which movement stream an event came from.
type EventType string

const (
	EventReceipt    EventType = "receipt"
	EventDispatch   EventType = "dispatch"
	EventAdjustment EventType = "adjustment"
)

// Event is one stock-affecting record, normalized across the three streams.
// For receipts and dispatches Quantity is the positive record quantity
// (quantity received / approved quantity); for adjustments it is the signed
// delta. At is the business date (the adjustment timestamp for adjustments);
// CreatedAt breaks ties within the same instant.
type Event struct {
	RecordID         id.ID          `db:"record_id" json:"recordId"`
	Type             EventType      `db:"event_type" json:"type"`
	At               time.Time      `db:"at" json:"at"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	DocumentNo       string         `db:"document_no" json:"documentNo,omitempty"`
	CounterpartyID   id.ID          `db:"counterparty_id" json:"counterpartyId,omitempty"`
	CounterpartyName string         `db:"counterparty_name" json:"counterpartyName,omitempty"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`
	Note             string         `db:"note" json:"note,omitempty"`
}

// Effect returns the signed change this event applied to quantity on hand.
func (e Event) Effect() types.Quantity {
	switch e.Type {
	case EventDispatch:
		return e.Quantity.Neg()
	default:
		// receipts add, adjustments carry their own sign
		return e.Quantity
	}
}

// Before reports whether e is strictly earlier than other in replay order
// (business date, then creation time).
func (e Event) Before(other Event) bool {
	if !e.At.Equal(other.At) {
		return e.At.Before(other.At)
	}
	return e.CreatedAt.Before(other.CreatedAt)
}
