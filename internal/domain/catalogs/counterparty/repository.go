package counterparty

import (
	"context"

	"stockledger/internal/core/id"
)

// ListFilter for filtering counterparty queries.
type ListFilter struct {
	Search     string
	Type       *Type
	ActiveOnly bool

	Limit  int
	Offset int
}

// ListResult contains paginated results.
type ListResult struct {
	Items      []*Counterparty `json:"items"`
	TotalCount int64           `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// Repository defines operations for the counterparty catalog.
type Repository interface {
	Create(ctx context.Context, cp *Counterparty) error
	GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error)
	GetByCode(ctx context.Context, code string) (*Counterparty, error)
	Update(ctx context.Context, cp *Counterparty) error
	Delete(ctx context.Context, cpID id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Exists(ctx context.Context, cpID id.ID) (bool, error)
}
