package item

import (
	"context"

	"stockledger/internal/core/id"
	"stockledger/internal/domain/stock"
)

// ListFilter for filtering item queries.
type ListFilter struct {
	// Search matches code and name
	Search string

	// Category filters by exact category
	Category string

	// ActiveOnly excludes deactivated items
	ActiveOnly bool

	// BelowMinimum returns only items at or below their reorder threshold
	BelowMinimum bool

	// Pagination
	Limit  int
	Offset int
}

// ListResult contains paginated results.
type ListResult struct {
	Items      []*Item `json:"items"`
	TotalCount int64   `json:"totalCount"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// Repository defines operations for the item catalog.
// It doubles as the stock mutator's ItemStore and the ledger's quantity
// anchor, so everything reads and writes the same row.
type Repository interface {
	stock.ItemStore

	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)

	// Update modifies catalog fields with optimistic locking.
	// CurrentQuantity is intentionally not written here; only the
	// mutator's SetQuantity touches it.
	Update(ctx context.Context, item *Item) error

	// Delete removes the item. Fails while movement records reference it.
	Delete(ctx context.Context, itemID id.ID) error

	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Exists(ctx context.Context, itemID id.ID) (bool, error)

	// HasMovements reports whether any movement record references the item.
	HasMovements(ctx context.Context, itemID id.ID) (bool, error)
}
