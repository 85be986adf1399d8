// Package stock owns the derived quantity-on-hand of an item.
// Every movement create/edit/delete funnels through the Mutator inside the
// caller's transaction, so the read-validate-write step is serialized per
// item by the row lock.
package stock

import (
	"context"
	"fmt"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/pkg/logger"
)

// ItemQuantity is the locked view of an item the Mutator operates on.
type ItemQuantity struct {
	ItemID   id.ID
	Quantity types.Quantity
	Active   bool
}

// ItemStore is the Mutator's write path into the item registry.
// GetQuantityForUpdate must take a row-level lock for the duration of the
// surrounding transaction; implementations return NOT_FOUND for unknown items.
type ItemStore interface {
	GetQuantityForUpdate(ctx context.Context, itemID id.ID) (ItemQuantity, error)
	SetQuantity(ctx context.Context, itemID id.ID, quantity types.Quantity) error
}

// Mutator applies and reverses quantity deltas on items.
// It must be called within a transaction; partial reverse+apply sequences are
// never observable because the row lock is held until commit.
type Mutator struct {
	store ItemStore
}

// NewMutator creates a new stock mutator.
func NewMutator(store ItemStore) *Mutator {
	return &Mutator{store: store}
}

// Apply adds delta to the item's quantity on hand.
// Fails with INSUFFICIENT_STOCK before writing if the result would be
// negative, and with ITEM_INACTIVE for deactivated items.
func (m *Mutator) Apply(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	item, err := m.store.GetQuantityForUpdate(ctx, itemID)
	if err != nil {
		return err
	}

	if !item.Active {
		return apperror.NewItemInactive(itemID.String())
	}

	next := item.Quantity + delta
	if next.IsNegative() {
		return apperror.NewInsufficientStock(itemID.String(), delta.Abs().String(), item.Quantity.String())
	}

	if err := m.store.SetQuantity(ctx, itemID, next); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}

	logger.Debug(ctx, "stock quantity mutated",
		"item_id", itemID,
		"delta", delta.String(),
		"quantity", next.String(),
	)

	return nil
}

// Reverse undoes a previously applied delta.
func (m *Mutator) Reverse(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	return m.Apply(ctx, itemID, delta.Neg())
}

// Reapply replaces oldDelta with newDelta as one logical unit.
// Equivalent to Reverse(oldDelta) followed by Apply(newDelta), but performed
// as a single locked read-modify-write so no intermediate state is visible.
func (m *Mutator) Reapply(ctx context.Context, itemID id.ID, oldDelta, newDelta types.Quantity) error {
	return m.Apply(ctx, itemID, newDelta-oldDelta)
}

// OnHand returns the item's quantity with the row lock held.
// Used when a subsequent mutation in the same transaction depends on the
// value read (dispatch accounting).
func (m *Mutator) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	item, err := m.store.GetQuantityForUpdate(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if !item.Active {
		return 0, apperror.NewItemInactive(itemID.String())
	}
	return item.Quantity, nil
}
