// Package receipt provides the inbound movement record.
// A receipt increases the item's quantity on hand by its received quantity.
package receipt

import (
	"context"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/entity"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Receipt records goods coming in from a supplier.
type Receipt struct {
	entity.MovementRecord

	// QuantityReceived is the stock-affecting quantity (always positive)
	QuantityReceived types.Quantity `db:"quantity_received" json:"quantityReceived"`
}

// New creates a new receipt.
func New(itemID, supplierID id.ID, documentNo string, quantity types.Quantity, date time.Time) *Receipt {
	return &Receipt{
		MovementRecord:   entity.NewMovementRecord(itemID, supplierID, documentNo, date),
		QuantityReceived: quantity,
	}
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.MovementRecord.Validate(ctx); err != nil {
		return err
	}

	if !r.QuantityReceived.IsPositive() {
		return apperror.NewValidation("received quantity must be positive").
			WithDetail("field", "quantityReceived")
	}

	return nil
}
