package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// fakeTxManager runs every function directly without a database.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEventRepo struct {
	events []Event
}

func (r *fakeEventRepo) ListEvents(ctx context.Context, itemID id.ID, filter EventFilter) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if filter.From != nil && e.At.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.At.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	SortChronological(out)
	return out, nil
}

type fakeQuantities struct {
	itemID  id.ID
	current types.Quantity
}

func (q fakeQuantities) CurrentQuantity(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	if itemID != q.itemID {
		return 0, apperror.NewNotFound("item", itemID.String())
	}
	return q.current, nil
}

func newTestService(itemID id.ID, current string, events []Event) *Service {
	return NewService(
		&fakeEventRepo{events: events},
		fakeQuantities{itemID: itemID, current: types.MustQuantity(current)},
		fakeTxManager{},
	)
}

func TestOpeningQuantity_ReconstructsPastWindow(t *testing.T) {
	itemID := id.New()
	// +100 on day 1, -30 on day 5, +20 on day 10 => current 90
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(5, "30"),
		receiptEvent(10, "20"),
	}
	svc := newTestService(itemID, "90", events)

	opening, err := svc.OpeningQuantity(context.Background(), itemID, day(5), day(8))
	require.NoError(t, err)

	// Events at or after windowStart are reversed, including the
	// day-10 receipt beyond windowEnd.
	assert.Equal(t, types.MustQuantity("100"), opening)
}

func TestOpeningQuantity_WindowValidation(t *testing.T) {
	itemID := id.New()
	svc := newTestService(itemID, "0", nil)

	_, err := svc.OpeningQuantity(context.Background(), itemID, day(8), day(5))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestOpeningQuantity_UnknownItem(t *testing.T) {
	svc := newTestService(id.New(), "0", nil)

	_, err := svc.OpeningQuantity(context.Background(), id.New(), day(1), day(2))
	assert.True(t, apperror.IsNotFound(err))
}

func TestHistory_AbsoluteBalancesNewestFirst(t *testing.T) {
	itemID := id.New()
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(2, "30"),
		adjustmentEvent(3, "-5"),
	}
	svc := newTestService(itemID, "65", events)

	entries, err := svc.History(context.Background(), itemID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first, each entry carrying the balance after it.
	assert.Equal(t, EventAdjustment, entries[0].Type)
	assert.Equal(t, types.MustQuantity("65"), entries[0].BalanceAfter)
	assert.Equal(t, types.MustQuantity("-5"), entries[0].Quantity)

	assert.Equal(t, EventDispatch, entries[1].Type)
	assert.Equal(t, types.MustQuantity("70"), entries[1].BalanceAfter)
	assert.Equal(t, types.MustQuantity("-30"), entries[1].Quantity)

	assert.Equal(t, EventReceipt, entries[2].Type)
	assert.Equal(t, types.MustQuantity("100"), entries[2].BalanceAfter)
	assert.Equal(t, types.MustQuantity("100"), entries[2].Quantity)
}

func TestHistory_TruncationKeepsExactBalances(t *testing.T) {
	itemID := id.New()
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(2, "30"),
		adjustmentEvent(3, "-5"),
	}
	svc := newTestService(itemID, "65", events)

	entries, err := svc.History(context.Background(), itemID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The page holds the two newest events with the same balances the
	// full history would show.
	assert.Equal(t, types.MustQuantity("65"), entries[0].BalanceAfter)
	assert.Equal(t, types.MustQuantity("70"), entries[1].BalanceAfter)
}

func TestGetTurnover(t *testing.T) {
	itemID := id.New()
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(3, "40"),
		adjustmentEvent(6, "-10"),
		receiptEvent(9, "25"),
	}
	svc := newTestService(itemID, "75", events)

	result, err := svc.GetTurnover(context.Background(), itemID, day(3), day(7))
	require.NoError(t, err)

	assert.Equal(t, types.MustQuantity("100"), result.OpeningQuantity)
	assert.Equal(t, types.MustQuantity("0"), result.Received)
	assert.Equal(t, types.MustQuantity("40"), result.Dispatched)
	assert.Equal(t, types.MustQuantity("-10"), result.Adjusted)
	assert.Equal(t, types.MustQuantity("50"), result.ClosingQuantity)
}
