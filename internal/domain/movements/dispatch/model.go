// Package dispatch implements outbound goods movements and their
// accounting resolution against available stock.
package dispatch

import (
	"context"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/entity"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Dispatch is an outbound movement of goods to a customer.
//
// ApprovedQty, CustomerReturnQty and RejectQty are caller-supplied.
// RetainedQty and TotalQty are derived by ResolveAccounting and stored
// alongside the record so reports never recompute them.
type Dispatch struct {
	entity.MovementRecord

	ApprovedQty       types.Quantity `json:"approvedQty" db:"approved_qty"`
	CustomerReturnQty types.Quantity `json:"customerReturnQty" db:"customer_return_qty"`
	RejectQty         types.Quantity `json:"rejectQty" db:"reject_qty"`

	// RetainedQty is the portion of on-hand stock beyond the approved
	// quantity at resolution time.
	RetainedQty types.Quantity `json:"retainedQty" db:"retained_qty"`

	// TotalQty is ApprovedQty + RetainedQty.
	TotalQty types.Quantity `json:"totalQty" db:"total_qty"`
}

// New creates a dispatch record. Accounting fields stay zero until
// ResolveAccounting runs against the item's on-hand quantity.
func New(itemID, customerID id.ID, documentNo string, approved, customerReturn, reject types.Quantity, date time.Time) *Dispatch {
	return &Dispatch{
		MovementRecord:    entity.NewMovementRecord(itemID, customerID, documentNo, date),
		ApprovedQty:       approved,
		CustomerReturnQty: customerReturn,
		RejectQty:         reject,
	}
}

// Validate checks structural fields. Quantity rules live in
// ResolveAccounting because they depend on current stock.
func (d *Dispatch) Validate(ctx context.Context) error {
	if err := d.MovementRecord.Validate(ctx); err != nil {
		return err
	}
	if d.CustomerReturnQty.IsNegative() {
		return apperror.NewValidation("customer return quantity cannot be negative").
			WithDetail("field", "customerReturnQty")
	}
	if d.RejectQty.IsNegative() {
		return apperror.NewValidation("reject quantity cannot be negative").
			WithDetail("field", "rejectQty")
	}
	return nil
}

// ResolveAccounting validates the quantities against available stock
// and fills the derived fields.
//
// available is the item's on-hand quantity not counting this dispatch:
// the current quantity on create, current plus the old approved
// quantity on edit. Checks run in a fixed order so the caller always
// sees the most specific failure first.
func (d *Dispatch) ResolveAccounting(available types.Quantity) error {
	if !d.ApprovedQty.IsPositive() {
		return apperror.NewValidation("approved quantity must be positive").
			WithDetail("field", "approvedQty")
	}

	if d.CustomerReturnQty.Add(d.RejectQty).GreaterThan(d.ApprovedQty) {
		return apperror.NewValidation("returned plus rejected quantity cannot exceed approved quantity").
			WithDetail("approvedQty", d.ApprovedQty.String()).
			WithDetail("customerReturnQty", d.CustomerReturnQty.String()).
			WithDetail("rejectQty", d.RejectQty.String())
	}

	if d.ApprovedQty.GreaterThan(available) {
		return apperror.NewInsufficientStock(d.ItemID.String(), d.ApprovedQty.String(), available.String())
	}

	d.RetainedQty = available.Sub(d.ApprovedQty)
	if d.RetainedQty.IsNegative() {
		d.RetainedQty = types.Quantity(0)
	}
	d.TotalQty = d.ApprovedQty.Add(d.RetainedQty)

	return nil
}
