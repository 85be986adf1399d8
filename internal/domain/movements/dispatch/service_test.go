package dispatch

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
	records map[id.ID]*Dispatch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[id.ID]*Dispatch)}
}

func (r *fakeRepo) Create(ctx context.Context, d *Dispatch) error {
	cp := *d
	r.records[d.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, dispatchID id.ID) (*Dispatch, error) {
	d, ok := r.records[dispatchID]
	if !ok {
		return nil, apperror.NewNotFound("dispatch", dispatchID.String())
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, d *Dispatch) error {
	if _, ok := r.records[d.ID]; !ok {
		return apperror.NewNotFound("dispatch", d.ID.String())
	}
	cp := *d
	r.records[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, dispatchID id.ID) error {
	delete(r.records, dispatchID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{Limit: filter.Limit, Offset: filter.Offset}
	for _, d := range r.records {
		cp := *d
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error) {
	for _, d := range r.records {
		if d.ID == excludeID {
			continue
		}
		if d.CounterpartyID == counterpartyID && d.DocumentNo == documentNo {
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

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	store      *memStore
	itemID     id.ID
	customerID id.ID
}

func newFixture(t *testing.T, onHand string) *fixture {
	t.Helper()

	itemID := id.New()
	customerID := id.New()

	store := &memStore{items: map[id.ID]*stock.ItemQuantity{
		itemID: {ItemID: itemID, Quantity: types.MustQuantity(onHand), Active: true},
	}}
	repo := newFakeRepo()

	svc := NewService(
		repo,
		fakeDirectory{known: map[id.ID]bool{customerID: true}},
		stock.NewMutator(store),
		nil,
		nil,
		fakeTxManager{},
	)

	return &fixture{svc: svc, repo: repo, store: store, itemID: itemID, customerID: customerID}
}

func (f *fixture) onHand() types.Quantity {
	return f.store.items[f.itemID].Quantity
}

func date(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestCreate_SubtractsApprovedAndRetainsRest(t *testing.T) {
	f := newFixture(t, "100")

	d, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID:      f.itemID,
		CustomerID:  f.customerID,
		DocumentNo:  "DS-1",
		ApprovedQty: qty("60"),
		Date:        date(1),
	})
	require.NoError(t, err)

	assert.Equal(t, qty("40"), d.RetainedQty)
	assert.Equal(t, qty("100"), d.TotalQty)
	assert.Equal(t, qty("40"), f.onHand())
}

func TestCreate_InsufficientStockWritesNothing(t *testing.T) {
	f := newFixture(t, "50")

	_, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID:      f.itemID,
		CustomerID:  f.customerID,
		DocumentNo:  "DS-1",
		ApprovedQty: qty("51"),
		Date:        date(1),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, qty("50"), f.onHand())
	assert.Empty(t, f.repo.records)
}

func TestCreate_UnknownCustomer(t *testing.T) {
	f := newFixture(t, "100")

	_, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID:      f.itemID,
		CustomerID:  id.New(),
		DocumentNo:  "DS-1",
		ApprovedQty: qty("10"),
		Date:        date(1),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_DuplicateDocumentPerCustomer(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		DocumentNo: "DS-1", ApprovedQty: qty("10"), Date: date(1),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		DocumentNo: "DS-1", ApprovedQty: qty("10"), Date: date(2),
	})
	assert.True(t, apperror.IsDuplicateDocument(err))

	// Stock is untouched by the rejected create.
	assert.Equal(t, qty("90"), f.onHand())
}

func TestCreate_RequiresDocumentNoWithoutNumerator(t *testing.T) {
	f := newFixture(t, "100")

	_, err := f.svc.Create(context.Background(), CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		ApprovedQty: qty("10"), Date: date(1),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdate_ResolvesAgainstStockWithoutOldDispatch(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	d, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		DocumentNo: "DS-1", ApprovedQty: qty("60"), Date: date(1),
	})
	require.NoError(t, err)
	require.Equal(t, qty("40"), f.onHand())

	// Raising approved to 90 must succeed: the edit sees 40 + 60 = 100.
	approved := qty("90")
	updated, err := f.svc.Update(ctx, d.ID, UpdateCommand{ApprovedQty: &approved})
	require.NoError(t, err)

	assert.Equal(t, qty("90"), updated.ApprovedQty)
	assert.Equal(t, qty("10"), updated.RetainedQty)
	assert.Equal(t, qty("100"), updated.TotalQty)
	assert.Equal(t, qty("10"), f.onHand())
}

func TestUpdate_RejectsApprovedBeyondRestoredStock(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	d, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		DocumentNo: "DS-1", ApprovedQty: qty("60"), Date: date(1),
	})
	require.NoError(t, err)

	approved := qty("101")
	_, err = f.svc.Update(ctx, d.ID, UpdateCommand{ApprovedQty: &approved})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The old dispatch still stands.
	assert.Equal(t, qty("40"), f.onHand())
	stored, err := f.repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, qty("60"), stored.ApprovedQty)
}

func TestDelete_ReturnsApprovedToStock(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	d, err := f.svc.Create(ctx, CreateCommand{
		ItemID: f.itemID, CustomerID: f.customerID,
		DocumentNo: "DS-1", ApprovedQty: qty("60"), Date: date(1),
	})
	require.NoError(t, err)
	require.Equal(t, qty("40"), f.onHand())

	require.NoError(t, f.svc.Delete(ctx, d.ID))

	assert.Equal(t, qty("100"), f.onHand())
	_, err = f.repo.GetByID(ctx, d.ID)
	assert.True(t, apperror.IsNotFound(err))
}
