package ledger

import (
	"context"
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// EventFilter bounds an event query by business date.
type EventFilter struct {
	// From includes events dated at or after this instant (nil = from the beginning)
	From *time.Time

	// To includes events dated at or before this instant (nil = up to now)
	To *time.Time
}

// Repository reads the merged movement streams for an item.
type Repository interface {
	// ListEvents returns receipts, dispatches and adjustments for the item,
	// ascending by (date, created_at).
	ListEvents(ctx context.Context, itemID id.ID, filter EventFilter) ([]Event, error)
}

// QuantityReader is the ledger's view of the item registry.
type QuantityReader interface {
	// CurrentQuantity returns the item's quantity on hand.
	// Returns NOT_FOUND if the item does not exist.
	CurrentQuantity(ctx context.Context, itemID id.ID) (types.Quantity, error)
}
