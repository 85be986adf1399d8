package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// memStore is an in-memory ItemStore. Tests run single-threaded so the
// row-locking contract is not exercised here.
type memStore struct {
	items map[id.ID]*ItemQuantity
}

func newMemStore() *memStore {
	return &memStore{items: make(map[id.ID]*ItemQuantity)}
}

func (s *memStore) add(itemID id.ID, qty string, active bool) {
	s.items[itemID] = &ItemQuantity{
		ItemID:   itemID,
		Quantity: types.MustQuantity(qty),
		Active:   active,
	}
}

func (s *memStore) GetQuantityForUpdate(ctx context.Context, itemID id.ID) (ItemQuantity, error) {
	it, ok := s.items[itemID]
	if !ok {
		return ItemQuantity{}, apperror.NewNotFound("item", itemID.String())
	}
	return *it, nil
}

func (s *memStore) SetQuantity(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	it, ok := s.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.Quantity = quantity
	return nil
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	itemID := id.New()
	store.add(itemID, "10", true)

	m := NewMutator(store)

	require.NoError(t, m.Apply(ctx, itemID, types.MustQuantity("5")))
	assert.Equal(t, types.MustQuantity("15"), store.items[itemID].Quantity)

	require.NoError(t, m.Apply(ctx, itemID, types.MustQuantity("-15")))
	assert.True(t, store.items[itemID].Quantity.IsZero())
}

func TestApply_InsufficientStockLeavesQuantityUntouched(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	itemID := id.New()
	store.add(itemID, "10", true)

	m := NewMutator(store)

	err := m.Apply(ctx, itemID, types.MustQuantity("-10.0001"))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, types.MustQuantity("10"), store.items[itemID].Quantity)
}

func TestApply_InactiveItem(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	itemID := id.New()
	store.add(itemID, "10", false)

	m := NewMutator(store)

	err := m.Apply(ctx, itemID, types.MustQuantity("1"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeItemInactive, appErr.Code)
}

func TestApply_UnknownItem(t *testing.T) {
	m := NewMutator(newMemStore())

	err := m.Apply(context.Background(), id.New(), types.MustQuantity("1"))
	assert.True(t, apperror.IsNotFound(err))
}

func TestReverse(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	itemID := id.New()
	store.add(itemID, "10", true)

	m := NewMutator(store)

	require.NoError(t, m.Apply(ctx, itemID, types.MustQuantity("5")))
	require.NoError(t, m.Reverse(ctx, itemID, types.MustQuantity("5")))
	assert.Equal(t, types.MustQuantity("10"), store.items[itemID].Quantity)
}

func TestReapply(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	itemID := id.New()
	store.add(itemID, "10", true)

	m := NewMutator(store)

	// Replace a +4 with a +7 in one step.
	require.NoError(t, m.Apply(ctx, itemID, types.MustQuantity("4")))
	require.NoError(t, m.Reapply(ctx, itemID, types.MustQuantity("4"), types.MustQuantity("7")))
	assert.Equal(t, types.MustQuantity("17"), store.items[itemID].Quantity)

	// Replacing a -2 with a -20 would go below zero; nothing changes.
	err := m.Reapply(ctx, itemID, types.MustQuantity("-2"), types.MustQuantity("-20"))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, types.MustQuantity("17"), store.items[itemID].Quantity)
}

func TestOnHand(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	active := id.New()
	inactive := id.New()
	store.add(active, "42", true)
	store.add(inactive, "5", false)

	m := NewMutator(store)

	qty, err := m.OnHand(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("42"), qty)

	_, err = m.OnHand(ctx, inactive)
	require.Error(t, err)
}
