package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func receiptEvent(n int, qty string) Event {
	return Event{
		RecordID:  id.New(),
		Type:      EventReceipt,
		At:        day(n),
		CreatedAt: day(n),
		Quantity:  types.MustQuantity(qty),
	}
}

func dispatchEvent(n int, qty string) Event {
	return Event{
		RecordID:  id.New(),
		Type:      EventDispatch,
		At:        day(n),
		CreatedAt: day(n),
		Quantity:  types.MustQuantity(qty),
	}
}

func adjustmentEvent(n int, delta string) Event {
	return Event{
		RecordID:  id.New(),
		Type:      EventAdjustment,
		At:        day(n),
		CreatedAt: day(n),
		Quantity:  types.MustQuantity(delta),
	}
}

func TestEventEffect(t *testing.T) {
	assert.Equal(t, types.MustQuantity("5"), receiptEvent(1, "5").Effect())
	assert.Equal(t, types.MustQuantity("-5"), dispatchEvent(1, "5").Effect())
	assert.Equal(t, types.MustQuantity("-2"), adjustmentEvent(1, "-2").Effect())
	assert.Equal(t, types.MustQuantity("2"), adjustmentEvent(1, "2").Effect())
}

func TestSortChronological_TieBreakOnCreatedAt(t *testing.T) {
	early := receiptEvent(5, "1")
	late := receiptEvent(5, "2")
	late.CreatedAt = early.CreatedAt.Add(time.Second)

	events := []Event{late, early}
	SortChronological(events)

	assert.Equal(t, early.RecordID, events[0].RecordID)
	assert.Equal(t, late.RecordID, events[1].RecordID)
}

func TestRunningBalances_AnchoredToCurrent(t *testing.T) {
	// receipts 100, dispatch 30, adjustment -5 => current 65
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(2, "30"),
		adjustmentEvent(3, "-5"),
	}
	current := types.MustQuantity("65")

	balances := RunningBalances(current, events)

	require.Len(t, balances, 3)
	assert.Equal(t, types.MustQuantity("100"), balances[0])
	assert.Equal(t, types.MustQuantity("70"), balances[1])
	assert.Equal(t, types.MustQuantity("65"), balances[2])
}

func TestQuantityBefore(t *testing.T) {
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(5, "30"),
		receiptEvent(10, "20"),
	}
	current := types.MustQuantity("90")

	// Before day 5: only the first receipt had happened.
	assert.Equal(t, types.MustQuantity("100"), QuantityBefore(current, events, day(5)))

	// Before day 1: nothing had happened.
	assert.Equal(t, types.MustQuantity("0"), QuantityBefore(current, events, day(1)))

	// Cutoff after everything: current stands.
	assert.Equal(t, current, QuantityBefore(current, events, day(11)))
}

func TestReplayRoundTrip(t *testing.T) {
	events := []Event{
		receiptEvent(1, "100"),
		dispatchEvent(3, "40"),
		adjustmentEvent(6, "-10"),
		receiptEvent(9, "25"),
	}
	current := types.MustQuantity("75")

	from, to := day(3), day(7)
	opening := QuantityBefore(current, events, from)
	closing := ReplayForward(opening, events, from, to)

	// Replaying the window forward from its opening lands on the
	// quantity before the first event after the window.
	assert.Equal(t, QuantityBefore(current, events, day(8)), closing)
	assert.Equal(t, types.MustQuantity("100"), opening)
	assert.Equal(t, types.MustQuantity("50"), closing)
}
