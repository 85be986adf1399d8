package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/stock"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	items        map[id.ID]*Item
	hasMovements map[id.ID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:        make(map[id.ID]*Item),
		hasMovements: make(map[id.ID]bool),
	}
}

func (r *fakeRepo) Create(ctx context.Context, it *Item) error {
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) GetByCode(ctx context.Context, code string) (*Item, error) {
	for _, it := range r.items {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *fakeRepo) Update(ctx context.Context, it *Item) error {
	stored, ok := r.items[it.ID]
	if !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	cp := *it
	// The catalog update path never writes the derived quantity.
	cp.CurrentQuantity = stored.CurrentQuantity
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{Limit: filter.Limit, Offset: filter.Offset}
	for _, it := range r.items {
		if filter.ActiveOnly && !it.Active {
			continue
		}
		if filter.BelowMinimum && !it.BelowMinimum() {
			continue
		}
		cp := *it
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := r.items[itemID]
	return ok, nil
}

func (r *fakeRepo) HasMovements(ctx context.Context, itemID id.ID) (bool, error) {
	return r.hasMovements[itemID], nil
}

func (r *fakeRepo) GetQuantityForUpdate(ctx context.Context, itemID id.ID) (stock.ItemQuantity, error) {
	it, ok := r.items[itemID]
	if !ok {
		return stock.ItemQuantity{}, apperror.NewNotFound("item", itemID.String())
	}
	return stock.ItemQuantity{ItemID: itemID, Quantity: it.CurrentQuantity, Active: it.Active}, nil
}

func (r *fakeRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	r.items[itemID].CurrentQuantity = quantity
	return nil
}

func TestCreate_StartsWithZeroStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})

	it, err := svc.Create(context.Background(), CreateCommand{
		Code: "BOLT-M8",
		Name: "Hex bolt M8x40",
		Unit: "pcs",
	})
	require.NoError(t, err)

	assert.True(t, it.CurrentQuantity.IsZero())
	assert.True(t, it.Active)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTxManager{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCommand{Name: "no code", Unit: "pcs"})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateCommand{Code: "X", Name: "no unit"})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateCommand{
		Code: "X", Name: "negative minimum", Unit: "pcs",
		MinimumQuantity: types.MustQuantity("-1"),
	})
	require.Error(t, err)
}

func TestUpdate_CannotChangeQuantity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	it, err := svc.Create(ctx, CreateCommand{Code: "X", Name: "x", Unit: "pcs"})
	require.NoError(t, err)

	// Movements raised stock to 30 in the meantime.
	repo.items[it.ID].CurrentQuantity = types.MustQuantity("30")

	name := "renamed"
	updated, err := svc.Update(ctx, it.ID, UpdateCommand{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, types.MustQuantity("30"), repo.items[it.ID].CurrentQuantity)
}

func TestDelete_RejectedWhileMovementsExist(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	it, err := svc.Create(ctx, CreateCommand{Code: "X", Name: "x", Unit: "pcs"})
	require.NoError(t, err)
	repo.hasMovements[it.ID] = true

	err = svc.Delete(ctx, it.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeItemReferenced, appErr.Code)

	// Still there.
	_, err = svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
}

func TestDelete_UnreferencedItem(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	it, err := svc.Create(ctx, CreateCommand{Code: "X", Name: "x", Unit: "pcs"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, it.ID))

	_, err = svc.GetByID(ctx, it.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	low, err := svc.Create(ctx, CreateCommand{
		Code: "LOW", Name: "low", Unit: "pcs",
		MinimumQuantity: types.MustQuantity("10"),
	})
	require.NoError(t, err)
	repo.items[low.ID].CurrentQuantity = types.MustQuantity("3")

	ok, err := svc.Create(ctx, CreateCommand{
		Code: "OK", Name: "ok", Unit: "pcs",
		MinimumQuantity: types.MustQuantity("10"),
	})
	require.NoError(t, err)
	repo.items[ok.ID].CurrentQuantity = types.MustQuantity("50")

	// No threshold set: never reported.
	_, err = svc.Create(ctx, CreateCommand{Code: "NOMIN", Name: "nomin", Unit: "pcs"})
	require.NoError(t, err)

	items, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "LOW", items[0].Code)
}
