// Package item provides the tracked-goods catalog.
// An item's CurrentQuantity is derived state: it always equals the net effect
// of every movement record applied to it, and only the stock mutator writes it.
package item

import (
	"context"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/entity"
	"stockledger/internal/core/types"
)

// Item represents one tracked good.
type Item struct {
	entity.Catalog

	// Category groups items for reporting
	Category string `db:"category" json:"category,omitempty"`

	// Unit is the unit of measure ("pcs", "kg", ...)
	Unit string `db:"unit" json:"unit"`

	// CurrentQuantity is the derived quantity on hand (never negative)
	CurrentQuantity types.Quantity `db:"current_quantity" json:"currentQuantity"`

	// MinimumQuantity is the reorder threshold
	MinimumQuantity types.Quantity `db:"minimum_quantity" json:"minimumQuantity"`
}

// New creates a new item with zero stock.
func New(code, name, unit string) *Item {
	return &Item{
		Catalog: entity.NewCatalog(code, name),
		Unit:    unit,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if i.CurrentQuantity.IsNegative() {
		return apperror.NewValidation("current quantity must not be negative").
			WithDetail("field", "currentQuantity")
	}

	if i.MinimumQuantity.IsNegative() {
		return apperror.NewValidation("minimum quantity must not be negative").
			WithDetail("field", "minimumQuantity")
	}

	return nil
}

// BelowMinimum reports whether the item is at or below its reorder threshold.
func (i *Item) BelowMinimum() bool {
	return i.MinimumQuantity.IsPositive() && i.CurrentQuantity <= i.MinimumQuantity
}
