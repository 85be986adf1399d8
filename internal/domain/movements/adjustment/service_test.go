package adjustment

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
	records map[id.ID]*Adjustment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[id.ID]*Adjustment)}
}

func (r *fakeRepo) Create(ctx context.Context, a *Adjustment) error {
	cp := *a
	r.records[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, adjustmentID id.ID) (*Adjustment, error) {
	a, ok := r.records[adjustmentID]
	if !ok {
		return nil, apperror.NewNotFound("adjustment", adjustmentID.String())
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) ListByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]*Adjustment, error) {
	var out []*Adjustment
	for _, a := range r.records {
		if a.ItemID == itemID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memStore struct {
	items map[id.ID]*stock.ItemQuantity
}

func (s *memStore) GetQuantityForUpdate(ctx context.Context, itemID id.ID) (stock.ItemQuantity, error) {
	it, ok := s.items[itemID]
	if !ok {
		return stock.ItemQuantity{}, apperror.NewNotFound("item", itemID.String())
	}
	return *it, nil
}

func (s *memStore) SetQuantity(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	s.items[itemID].Quantity = quantity
	return nil
}

func qty(s string) types.Quantity { return types.MustQuantity(s) }

func newTestService(t *testing.T, onHand string) (*Service, *fakeRepo, *memStore, id.ID) {
	t.Helper()

	itemID := id.New()
	store := &memStore{items: map[id.ID]*stock.ItemQuantity{
		itemID: {ItemID: itemID, Quantity: types.MustQuantity(onHand), Active: true},
	}}
	repo := newFakeRepo()
	svc := NewService(repo, stock.NewMutator(store), nil, fakeTxManager{})

	return svc, repo, store, itemID
}

func TestAdjust_PositiveDelta(t *testing.T) {
	svc, repo, store, itemID := newTestService(t, "10")

	result, err := svc.Adjust(context.Background(), itemID, qty("5"), "stocktake surplus")
	require.NoError(t, err)

	assert.Equal(t, qty("10"), result.Previous)
	assert.Equal(t, qty("15"), result.New)
	assert.Equal(t, qty("15"), store.items[itemID].Quantity)
	assert.Len(t, repo.records, 1)
}

func TestAdjust_NegativeDelta(t *testing.T) {
	svc, _, store, itemID := newTestService(t, "10")

	result, err := svc.Adjust(context.Background(), itemID, qty("-4"), "damaged goods")
	require.NoError(t, err)

	assert.Equal(t, qty("10"), result.Previous)
	assert.Equal(t, qty("6"), result.New)
	assert.Equal(t, qty("6"), store.items[itemID].Quantity)
}

func TestAdjust_RejectsZeroDelta(t *testing.T) {
	svc, repo, _, itemID := newTestService(t, "10")

	_, err := svc.Adjust(context.Background(), itemID, qty("0"), "no-op")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.records)
}

func TestAdjust_ReasonIsOptional(t *testing.T) {
	svc, repo, store, itemID := newTestService(t, "50")

	result, err := svc.Adjust(context.Background(), itemID, qty("-10"), "")
	require.NoError(t, err)

	assert.Equal(t, qty("40"), result.New)
	assert.Equal(t, qty("40"), store.items[itemID].Quantity)
	require.Len(t, repo.records, 1)
	assert.Empty(t, result.Adjustment.Reason)
}

func TestAdjust_CannotTakeStockBelowZero(t *testing.T) {
	svc, repo, store, itemID := newTestService(t, "10")

	_, err := svc.Adjust(context.Background(), itemID, qty("-10.0001"), "shrinkage")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Neither stock nor the trail changed.
	assert.Equal(t, qty("10"), store.items[itemID].Quantity)
	assert.Empty(t, repo.records)
}

func TestAdjust_ExactDrainToZero(t *testing.T) {
	svc, _, store, itemID := newTestService(t, "10")

	result, err := svc.Adjust(context.Background(), itemID, qty("-10"), "write-off")
	require.NoError(t, err)

	assert.True(t, result.New.IsZero())
	assert.True(t, store.items[itemID].Quantity.IsZero())
}

func TestListByItem_DefaultsLimit(t *testing.T) {
	svc, _, _, itemID := newTestService(t, "100")
	ctx := context.Background()

	_, err := svc.Adjust(ctx, itemID, qty("1"), "a")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, itemID, qty("2"), "b")
	require.NoError(t, err)

	list, err := svc.ListByItem(ctx, itemID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
