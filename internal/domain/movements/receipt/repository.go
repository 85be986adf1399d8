package receipt

import (
	"context"
	"time"

	"stockledger/internal/core/id"
)

// ListFilter for filtering receipts.
type ListFilter struct {
	ItemID         *id.ID
	CounterpartyID *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time

	Limit  int
	Offset int
}

// ListResult contains paginated results.
type ListResult struct {
	Items      []*Receipt `json:"items"`
	TotalCount int64      `json:"totalCount"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// Repository defines operations for receipt records.
type Repository interface {
	Create(ctx context.Context, rec *Receipt) error
	GetByID(ctx context.Context, recID id.ID) (*Receipt, error)
	Update(ctx context.Context, rec *Receipt) error
	Delete(ctx context.Context, recID id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// ExistsByDocumentNo checks document-number uniqueness within the
	// supplier scope, excluding excludeID (pass id.Nil() on create).
	ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error)
}
