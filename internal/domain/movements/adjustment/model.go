// Package adjustment implements manual stock corrections.
// Adjustments are append-only: they can never be edited or deleted,
// which keeps the correction trail trustworthy.
package adjustment

import (
	"context"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/entity"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Adjustment is a signed manual correction to an item's quantity.
type Adjustment struct {
	entity.BaseEntity

	ItemID id.ID `json:"itemId" db:"item_id"`

	// Delta is the signed correction. Positive adds stock, negative removes.
	Delta types.Quantity `json:"delta" db:"delta"`

	// Reason optionally explains the correction (stocktake, damage,
	// data entry fix).
	Reason string `json:"reason,omitempty" db:"reason"`

	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// New creates an adjustment with generated ID and timestamp.
func New(itemID id.ID, delta types.Quantity, reason string) *Adjustment {
	return &Adjustment{
		BaseEntity: entity.NewBaseEntity(),
		ItemID:     itemID,
		Delta:      delta,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements the Validatable interface.
func (a *Adjustment) Validate(ctx context.Context) error {
	if id.IsNil(a.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if a.Delta.IsZero() {
		return apperror.NewValidation("adjustment delta cannot be zero").
			WithDetail("field", "delta")
	}
	return nil
}
