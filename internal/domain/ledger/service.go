package ledger

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
)

// DefaultHistoryLimit bounds history responses when the caller passes no limit.
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the hard cap for a single history fetch.
const MaxHistoryLimit = 1000

// Service reconstructs point-in-time quantities and running balances.
// All reads run in a snapshot transaction so the anchor quantity and the
// event list come from one consistent point in time.
type Service struct {
	repo       Repository
	quantities QuantityReader
	txManager  tx.ReadOnlyManager
}

// NewService creates a new ledger service.
func NewService(repo Repository, quantities QuantityReader, txManager tx.ReadOnlyManager) *Service {
	return &Service{
		repo:       repo,
		quantities: quantities,
		txManager:  txManager,
	}
}

// OpeningQuantity returns the quantity on hand at the instant immediately
// before windowStart. Every event dated at or after windowStart is reversed,
// including events after windowEnd, so the reconstruction is exact for
// historical windows, not just the most recent one.
func (s *Service) OpeningQuantity(ctx context.Context, itemID id.ID, windowStart, windowEnd time.Time) (types.Quantity, error) {
	if windowEnd.Before(windowStart) {
		return 0, apperror.NewValidation("window end must not precede window start").
			WithDetail("windowStart", windowStart).
			WithDetail("windowEnd", windowEnd)
	}

	var opening types.Quantity
	err := s.txManager.Snapshot(ctx, func(ctx context.Context) error {
		current, err := s.quantities.CurrentQuantity(ctx, itemID)
		if err != nil {
			return err
		}

		events, err := s.repo.ListEvents(ctx, itemID, EventFilter{From: &windowStart})
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		opening = QuantityBefore(current, events, windowStart)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return opening, nil
}

// HistoryEntry is one row of the assembled transaction history.
type HistoryEntry struct {
	RecordID         id.ID          `json:"recordId"`
	Type             EventType      `json:"type"`
	Date             time.Time      `json:"date"`
	DocumentNo       string         `json:"documentNo,omitempty"`
	CounterpartyID   id.ID          `json:"counterpartyId,omitempty"`
	CounterpartyName string         `json:"counterpartyName,omitempty"`
	Quantity         types.Quantity `json:"quantity"`
	BalanceAfter     types.Quantity `json:"balanceAfter"`
	Note             string         `json:"note,omitempty"`
}

// History returns the item's merged movement history, newest first, with an
// absolute balance after each event. Balances are computed over the full
// event list before truncating to limit, so a truncated page still carries
// exact balances.
func (s *Service) History(ctx context.Context, itemID id.ID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	var entries []HistoryEntry
	err := s.txManager.Snapshot(ctx, func(ctx context.Context) error {
		current, err := s.quantities.CurrentQuantity(ctx, itemID)
		if err != nil {
			return err
		}

		events, err := s.repo.ListEvents(ctx, itemID, EventFilter{})
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		balances := RunningBalances(current, events)

		n := len(events)
		count := n
		if count > limit {
			count = limit
		}

		entries = make([]HistoryEntry, 0, count)
		for i := n - 1; i >= n-count; i-- {
			e := events[i]
			entries = append(entries, HistoryEntry{
				RecordID:         e.RecordID,
				Type:             e.Type,
				Date:             e.At,
				DocumentNo:       e.DocumentNo,
				CounterpartyID:   e.CounterpartyID,
				CounterpartyName: e.CounterpartyName,
				Quantity:         e.Effect(),
				BalanceAfter:     balances[i],
				Note:             e.Note,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Turnover summarizes an item's movements over a window.
type Turnover struct {
	ItemID          id.ID          `json:"itemId"`
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	OpeningQuantity types.Quantity `json:"openingQuantity"`
	Received        types.Quantity `json:"received"`
	Dispatched      types.Quantity `json:"dispatched"`
	Adjusted        types.Quantity `json:"adjusted"`
	ClosingQuantity types.Quantity `json:"closingQuantity"`
}

// GetTurnover computes opening, per-stream totals and closing for the window.
func (s *Service) GetTurnover(ctx context.Context, itemID id.ID, from, to time.Time) (Turnover, error) {
	if to.Before(from) {
		return Turnover{}, apperror.NewValidation("turnover window end must not precede start")
	}

	result := Turnover{ItemID: itemID, From: from, To: to}
	err := s.txManager.Snapshot(ctx, func(ctx context.Context) error {
		current, err := s.quantities.CurrentQuantity(ctx, itemID)
		if err != nil {
			return err
		}

		events, err := s.repo.ListEvents(ctx, itemID, EventFilter{From: &from})
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		result.OpeningQuantity = QuantityBefore(current, events, from)

		for _, e := range events {
			if e.At.After(to) {
				continue
			}
			switch e.Type {
			case EventReceipt:
				result.Received += e.Quantity
			case EventDispatch:
				result.Dispatched += e.Quantity
			case EventAdjustment:
				result.Adjusted += e.Quantity
			}
		}

		result.ClosingQuantity = result.OpeningQuantity + result.Received - result.Dispatched + result.Adjusted
		return nil
	})
	if err != nil {
		return Turnover{}, err
	}

	return result, nil
}
