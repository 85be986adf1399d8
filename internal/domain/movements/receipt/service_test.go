package receipt

import (
	"context"
	"testing"
	"time"

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
	records map[id.ID]*Receipt
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[id.ID]*Receipt)}
}

func (r *fakeRepo) Create(ctx context.Context, rec *Receipt) error {
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, recID id.ID) (*Receipt, error) {
	rec, ok := r.records[recID]
	if !ok {
		return nil, apperror.NewNotFound("receipt", recID.String())
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, rec *Receipt) error {
	if _, ok := r.records[rec.ID]; !ok {
		return apperror.NewNotFound("receipt", rec.ID.String())
	}
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, recID id.ID) error {
	delete(r.records, recID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{Limit: filter.Limit, Offset: filter.Offset}
	for _, rec := range r.records {
		cp := *rec
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error) {
	for _, rec := range r.records {
		if rec.ID == excludeID {
			continue
		}
		if rec.CounterpartyID == counterpartyID && rec.DocumentNo == documentNo {
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectory struct {
	known map[id.ID]bool
}

func (d fakeDirectory) Exists(ctx context.Context, cpID id.ID) (bool, error) {
	return d.known[cpID], nil
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

func date(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	store      *memStore
	itemID     id.ID
	supplierID id.ID
}

func newFixture(t *testing.T, onHand string) *fixture {
	t.Helper()

	itemID := id.New()
	supplierID := id.New()

	store := &memStore{items: map[id.ID]*stock.ItemQuantity{
		itemID: {ItemID: itemID, Quantity: types.MustQuantity(onHand), Active: true},
	}}
	repo := newFakeRepo()

	svc := NewService(
		repo,
		fakeDirectory{known: map[id.ID]bool{supplierID: true}},
		stock.NewMutator(store),
		nil,
		nil,
		fakeTxManager{},
	)

	return &fixture{svc: svc, repo: repo, store: store, itemID: itemID, supplierID: supplierID}
}

func (f *fixture) onHand() types.Quantity {
	return f.store.items[f.itemID].Quantity
}

func TestCreate_AddsQuantity(t *testing.T) {
	f := newFixture(t, "10")

	rec, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID:     f.itemID,
		SupplierID: f.supplierID,
		DocumentNo: "RC-1",
		Quantity:   qty("25"),
		Date:       date(1),
	})
	require.NoError(t, err)

	assert.Equal(t, qty("25"), rec.QuantityReceived)
	assert.Equal(t, qty("35"), f.onHand())
	assert.Len(t, f.repo.records, 1)
}

func TestCreate_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, "10")

	_, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID:     f.itemID,
		SupplierID: f.supplierID,
		DocumentNo: "RC-1",
		Quantity:   qty("0"),
		Date:       date(1),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, qty("10"), f.onHand())
}

func TestCreate_DocumentNoUniquePerSupplier(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "INV-77", Quantity: qty("5"), Date: date(1),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "INV-77", Quantity: qty("5"), Date: date(2),
	})
	assert.True(t, apperror.IsDuplicateDocument(err))
}

func TestUpdate_ReappliesQuantityDifference(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "RC-1", Quantity: qty("25"), Date: date(1),
	})
	require.NoError(t, err)
	require.Equal(t, qty("25"), f.onHand())

	newQty := qty("40")
	updated, err := f.svc.Update(ctx, rec.ID, UpdateCommand{Quantity: &newQty})
	require.NoError(t, err)

	assert.Equal(t, qty("40"), updated.QuantityReceived)
	assert.Equal(t, qty("40"), f.onHand())
}

func TestUpdate_RejectsShrinkBelowDispatchedStock(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "RC-1", Quantity: qty("25"), Date: date(1),
	})
	require.NoError(t, err)

	// Simulate 20 units already dispatched elsewhere.
	f.store.items[f.itemID].Quantity = qty("5")

	newQty := qty("3")
	_, err = f.svc.Update(ctx, rec.ID, UpdateCommand{Quantity: &newQty})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing changed.
	assert.Equal(t, qty("5"), f.onHand())
	stored, err := f.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, qty("25"), stored.QuantityReceived)
}

func TestDelete_ReversesStockEffect(t *testing.T) {
	f := newFixture(t, "10")
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "RC-1", Quantity: qty("25"), Date: date(1),
	})
	require.NoError(t, err)
	require.Equal(t, qty("35"), f.onHand())

	require.NoError(t, f.svc.Delete(ctx, rec.ID))

	assert.Equal(t, qty("10"), f.onHand())
	_, err = f.repo.GetByID(ctx, rec.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_FailsWhenStockAlreadyConsumed(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, SupplierID: f.supplierID,
		DocumentNo: "RC-1", Quantity: qty("25"), Date: date(1),
	})
	require.NoError(t, err)

	// All 25 units were dispatched since.
	f.store.items[f.itemID].Quantity = qty("0")

	err = f.svc.Delete(ctx, rec.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The receipt survives the failed delete.
	_, err = f.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
}
