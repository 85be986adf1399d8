package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockledger/internal/core/actor"
	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/audit"
	"stockledger/internal/domain/stock"
	"stockledger/pkg/logger"
	"stockledger/pkg/numerator"
)

// CounterpartyDirectory verifies counterparties exist.
type CounterpartyDirectory interface {
	Exists(ctx context.Context, cpID id.ID) (bool, error)
}

// Service provides business operations for receipt records.
// Every create/update/delete drives the stock mutator inside the same
// transaction, so the item quantity and the record never diverge.
type Service struct {
	repo           Repository
	counterparties CounterpartyDirectory
	mutator        *stock.Mutator
	numerator      *numerator.Service // optional; nil requires explicit document numbers
	auditor        audit.Recorder
	txManager      tx.Manager
}

// NewService creates a new receipt service.
func NewService(
	repo Repository,
	counterparties CounterpartyDirectory,
	mutator *stock.Mutator,
	num *numerator.Service,
	auditor audit.Recorder,
	txManager tx.Manager,
) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:           repo,
		counterparties: counterparties,
		mutator:        mutator,
		numerator:      num,
		auditor:        auditor,
		txManager:      txManager,
	}
}

// CreateCommand holds the fields for recording a receipt.
type CreateCommand struct {
	ItemID     id.ID
	SupplierID id.ID
	DocumentNo string
	Quantity   types.Quantity
	Date       time.Time
}

// Create records a receipt and applies its quantity to the item.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Receipt, error) {
	documentNo := cmd.DocumentNo
	if documentNo == "" {
		if s.numerator == nil {
			return nil, apperror.NewValidation("document number is required").
				WithDetail("field", "documentNo")
		}
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("RC"), nil, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate number: %w", err)
		}
		documentNo = number
	}

	rec := New(cmd.ItemID, cmd.SupplierID, documentNo, cmd.Quantity, cmd.Date)
	rec.CreatedBy = actor.GetID(ctx)

	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCounterparty(ctx, rec.CounterpartyID); err != nil {
			return err
		}

		dup, err := s.repo.ExistsByDocumentNo(ctx, rec.CounterpartyID, rec.DocumentNo, id.Nil())
		if err != nil {
			return fmt.Errorf("check document number: %w", err)
		}
		if dup {
			return apperror.NewDuplicateDocument(rec.DocumentNo, rec.CounterpartyID)
		}

		if err := s.mutator.Apply(ctx, rec.ItemID, rec.QuantityReceived); err != nil {
			return err
		}

		return s.repo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.ActionCreate, rec)

	logger.Info(ctx, "receipt created",
		"id", rec.ID,
		"document_no", rec.DocumentNo,
		"item_id", rec.ItemID,
		"quantity", rec.QuantityReceived.String(),
	)

	return rec, nil
}

// UpdateCommand holds the fields a caller may change on a receipt.
// The item reference is immutable; delete and recreate to move a receipt
// to another item.
type UpdateCommand struct {
	Date       *time.Time
	DocumentNo *string
	SupplierID *id.ID
	Quantity   *types.Quantity
}

// Update edits a receipt. The old quantity is reversed and the new one
// applied as a single locked mutation.
func (s *Service) Update(ctx context.Context, recID id.ID, cmd UpdateCommand) (*Receipt, error) {
	var updated *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, recID)
		if err != nil {
			return err
		}

		oldQty := rec.QuantityReceived

		if cmd.Date != nil {
			rec.Date = *cmd.Date
		}
		if cmd.DocumentNo != nil {
			rec.DocumentNo = *cmd.DocumentNo
		}
		if cmd.SupplierID != nil {
			rec.CounterpartyID = *cmd.SupplierID
		}
		if cmd.Quantity != nil {
			rec.QuantityReceived = *cmd.Quantity
		}

		if err := rec.Validate(ctx); err != nil {
			return err
		}

		if err := s.checkCounterparty(ctx, rec.CounterpartyID); err != nil {
			return err
		}

		dup, err := s.repo.ExistsByDocumentNo(ctx, rec.CounterpartyID, rec.DocumentNo, rec.ID)
		if err != nil {
			return fmt.Errorf("check document number: %w", err)
		}
		if dup {
			return apperror.NewDuplicateDocument(rec.DocumentNo, rec.CounterpartyID)
		}

		if err := s.mutator.Reapply(ctx, rec.ItemID, oldQty, rec.QuantityReceived); err != nil {
			return err
		}

		rec.Touch()
		if err := s.repo.Update(ctx, rec); err != nil {
			return fmt.Errorf("update receipt: %w", err)
		}

		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.ActionUpdate, updated)

	return updated, nil
}

// Delete removes a receipt and reverses its stock effect.
func (s *Service) Delete(ctx context.Context, recID id.ID) error {
	var deleted *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, recID)
		if err != nil {
			return err
		}

		if err := s.mutator.Reverse(ctx, rec.ItemID, rec.QuantityReceived); err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, recID); err != nil {
			return err
		}

		deleted = rec
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, audit.ActionDelete, deleted)

	logger.Info(ctx, "receipt deleted", "id", recID, "item_id", deleted.ItemID)
	return nil
}

// GetByID retrieves a receipt.
func (s *Service) GetByID(ctx context.Context, recID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, recID)
}

// List retrieves receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) checkCounterparty(ctx context.Context, cpID id.ID) error {
	if s.counterparties == nil {
		return nil
	}
	ok, err := s.counterparties.Exists(ctx, cpID)
	if err != nil {
		return fmt.Errorf("check counterparty: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("counterparty", cpID.String())
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action audit.Action, rec *Receipt) {
	changes, _ := json.Marshal(rec)
	err := s.auditor.Record(ctx, audit.Entry{
		EntityType: "Receipt",
		EntityID:   rec.ID.String(),
		Action:     action,
		ActorID:    actor.GetID(ctx),
		Changes:    changes,
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed", "entity", "Receipt", "id", rec.ID, "error", err)
	}
}
