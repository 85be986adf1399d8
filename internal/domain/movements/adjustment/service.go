package adjustment

import (
	"context"
	"encoding/json"

	"stockledger/internal/core/actor"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/audit"
	"stockledger/internal/domain/stock"
	"stockledger/pkg/logger"
)

// Service provides stock adjustment operations.
type Service struct {
	repo      Repository
	mutator   *stock.Mutator
	auditor   audit.Recorder
	txManager tx.Manager
}

// NewService creates a new adjustment service.
func NewService(repo Repository, mutator *stock.Mutator, auditor audit.Recorder, txManager tx.Manager) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		mutator:   mutator,
		auditor:   auditor,
		txManager: txManager,
	}
}

// Result reports the quantities around an applied adjustment.
type Result struct {
	Adjustment *Adjustment    `json:"adjustment"`
	Previous   types.Quantity `json:"previousQuantity"`
	New        types.Quantity `json:"newQuantity"`
}

// Adjust applies a signed correction to an item and records it.
// Negative deltas that would take stock below zero fail before anything
// is written.
func (s *Service) Adjust(ctx context.Context, itemID id.ID, delta types.Quantity, reason string) (*Result, error) {
	adj := New(itemID, delta, reason)
	adj.CreatedBy = actor.GetID(ctx)

	if err := adj.Validate(ctx); err != nil {
		return nil, err
	}

	var result *Result
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		previous, err := s.mutator.OnHand(ctx, itemID)
		if err != nil {
			return err
		}

		if err := s.mutator.Apply(ctx, itemID, delta); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, adj); err != nil {
			return err
		}

		result = &Result{
			Adjustment: adj,
			Previous:   previous,
			New:        previous.Add(delta),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, adj)

	logger.Info(ctx, "stock adjusted",
		"id", adj.ID,
		"item_id", itemID,
		"delta", delta.String(),
		"reason", reason,
	)

	return result, nil
}

// GetByID retrieves an adjustment.
func (s *Service) GetByID(ctx context.Context, adjustmentID id.ID) (*Adjustment, error) {
	return s.repo.GetByID(ctx, adjustmentID)
}

// ListByItem retrieves adjustments for an item, newest first.
func (s *Service) ListByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]*Adjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByItem(ctx, itemID, limit, offset)
}

func (s *Service) recordAudit(ctx context.Context, adj *Adjustment) {
	changes, _ := json.Marshal(adj)
	err := s.auditor.Record(ctx, audit.Entry{
		EntityType: "Adjustment",
		EntityID:   adj.ID.String(),
		Action:     audit.ActionAdjust,
		ActorID:    actor.GetID(ctx),
		Changes:    changes,
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed", "entity", "Adjustment", "id", adj.ID, "error", err)
	}
}
