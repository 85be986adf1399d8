package adjustment

import (
	"context"

	"stockledger/internal/core/id"
)

// Repository defines adjustment persistence. There is no Update or
// Delete: the trail is append-only.
type Repository interface {
	Create(ctx context.Context, a *Adjustment) error
	GetByID(ctx context.Context, adjustmentID id.ID) (*Adjustment, error)
	ListByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]*Adjustment, error)
}
