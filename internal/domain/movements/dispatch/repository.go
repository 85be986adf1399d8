package dispatch

import (
	"context"
	"time"

	"stockledger/internal/core/id"
)

// ListFilter for filtering dispatches.
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
	Items      []*Dispatch `json:"items"`
	TotalCount int64       `json:"totalCount"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

// Repository defines dispatch persistence.
type Repository interface {
	Create(ctx context.Context, d *Dispatch) error
	GetByID(ctx context.Context, dispatchID id.ID) (*Dispatch, error)
	Update(ctx context.Context, d *Dispatch) error
	Delete(ctx context.Context, dispatchID id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// ExistsByDocumentNo reports whether another dispatch of the same
	// counterparty already carries documentNo. excludeID skips the record
	// being edited; pass id.Nil() on create.
	ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error)
}
