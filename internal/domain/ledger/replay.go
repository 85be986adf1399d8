package ledger

import (
	"sort"
	"time"

	"stockledger/internal/core/types"
)

// The replay primitive: the item's current quantity is the anchor, and
// walking the event list backward while subtracting each event's effect
// yields the quantity on hand at any earlier boundary. The walk is exact
// only when the event list contains every stock-affecting event between
// the boundary and "now".

// SortChronological orders events ascending by (business date, creation time).
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Before(events[j])
	})
}

// RunningBalances returns the absolute quantity on hand after each event.
// events must be chronologically ascending and complete up to now; current
// anchors the walk, so balances[len-1] == current.
func RunningBalances(current types.Quantity, events []Event) []types.Quantity {
	balances := make([]types.Quantity, len(events))
	bal := current
	for i := len(events) - 1; i >= 0; i-- {
		balances[i] = bal
		bal -= events[i].Effect()
	}
	return balances
}

// QuantityBefore returns the quantity on hand at the instant immediately
// before cutoff, reversing every event dated at or after cutoff. events must
// contain all events from cutoff to now; events earlier than cutoff are
// ignored, so passing the full history is always safe.
func QuantityBefore(current types.Quantity, events []Event, cutoff time.Time) types.Quantity {
	bal := current
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].At.Before(cutoff) {
			continue
		}
		bal -= events[i].Effect()
	}
	return bal
}

// ReplayForward applies events dated within [from, to] on top of opening.
// Together with QuantityBefore it gives the round-trip property: replaying a
// window forward from its opening quantity lands on the window's closing
// quantity.
func ReplayForward(opening types.Quantity, events []Event, from, to time.Time) types.Quantity {
	bal := opening
	for _, e := range events {
		if e.At.Before(from) || e.At.After(to) {
			continue
		}
		bal += e.Effect()
	}
	return bal
}
