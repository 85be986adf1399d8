package dispatch

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

// Service provides business operations for dispatch records.
//
// The stock effect of a dispatch is its approved quantity; retained and
// total quantities are bookkeeping derived at resolution time and do not
// move stock. All accounting runs against the row-locked on-hand value,
// so concurrent dispatches of one item serialize.
type Service struct {
	repo           Repository
	counterparties CounterpartyDirectory
	mutator        *stock.Mutator
	numerator      *numerator.Service
	auditor        audit.Recorder
	txManager      tx.Manager
}

// NewService creates a new dispatch service.
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

// CreateCommand holds the fields for recording a dispatch.
type CreateCommand struct {
	ItemID            id.ID
	CustomerID        id.ID
	DocumentNo        string
	ApprovedQty       types.Quantity
	CustomerReturnQty types.Quantity
	RejectQty         types.Quantity
	Date              time.Time
}

// Create records a dispatch, resolves its accounting against the locked
// on-hand quantity and subtracts the approved quantity from the item.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Dispatch, error) {
	documentNo := cmd.DocumentNo
	if documentNo == "" {
		if s.numerator == nil {
			return nil, apperror.NewValidation("document number is required").
				WithDetail("field", "documentNo")
		}
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DS"), nil, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate number: %w", err)
		}
		documentNo = number
	}

	d := New(cmd.ItemID, cmd.CustomerID, documentNo, cmd.ApprovedQty, cmd.CustomerReturnQty, cmd.RejectQty, cmd.Date)
	d.CreatedBy = actor.GetID(ctx)

	if err := d.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCounterparty(ctx, d.CounterpartyID); err != nil {
			return err
		}

		dup, err := s.repo.ExistsByDocumentNo(ctx, d.CounterpartyID, d.DocumentNo, id.Nil())
		if err != nil {
			return fmt.Errorf("check document number: %w", err)
		}
		if dup {
			return apperror.NewDuplicateDocument(d.DocumentNo, d.CounterpartyID)
		}

		onHand, err := s.mutator.OnHand(ctx, d.ItemID)
		if err != nil {
			return err
		}

		if err := d.ResolveAccounting(onHand); err != nil {
			return err
		}

		if err := s.mutator.Apply(ctx, d.ItemID, d.ApprovedQty.Neg()); err != nil {
			return err
		}

		return s.repo.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.ActionCreate, d)

	logger.Info(ctx, "dispatch created",
		"id", d.ID,
		"document_no", d.DocumentNo,
		"item_id", d.ItemID,
		"approved_qty", d.ApprovedQty.String(),
		"retained_qty", d.RetainedQty.String(),
	)

	return d, nil
}

// UpdateCommand holds the fields a caller may change on a dispatch.
// The item reference is immutable.
type UpdateCommand struct {
	Date              *time.Time
	DocumentNo        *string
	CustomerID        *id.ID
	ApprovedQty       *types.Quantity
	CustomerReturnQty *types.Quantity
	RejectQty         *types.Quantity
}

// Update edits a dispatch. Accounting re-resolves against the on-hand
// quantity with the old approved quantity added back, as if the old
// dispatch never happened. The stock delta is then applied in one locked
// mutation.
func (s *Service) Update(ctx context.Context, dispatchID id.ID, cmd UpdateCommand) (*Dispatch, error) {
	var updated *Dispatch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByID(ctx, dispatchID)
		if err != nil {
			return err
		}

		oldApproved := d.ApprovedQty

		if cmd.Date != nil {
			d.Date = *cmd.Date
		}
		if cmd.DocumentNo != nil {
			d.DocumentNo = *cmd.DocumentNo
		}
		if cmd.CustomerID != nil {
			d.CounterpartyID = *cmd.CustomerID
		}
		if cmd.ApprovedQty != nil {
			d.ApprovedQty = *cmd.ApprovedQty
		}
		if cmd.CustomerReturnQty != nil {
			d.CustomerReturnQty = *cmd.CustomerReturnQty
		}
		if cmd.RejectQty != nil {
			d.RejectQty = *cmd.RejectQty
		}

		if err := d.Validate(ctx); err != nil {
			return err
		}

		if err := s.checkCounterparty(ctx, d.CounterpartyID); err != nil {
			return err
		}

		dup, err := s.repo.ExistsByDocumentNo(ctx, d.CounterpartyID, d.DocumentNo, d.ID)
		if err != nil {
			return fmt.Errorf("check document number: %w", err)
		}
		if dup {
			return apperror.NewDuplicateDocument(d.DocumentNo, d.CounterpartyID)
		}

		onHand, err := s.mutator.OnHand(ctx, d.ItemID)
		if err != nil {
			return err
		}

		if err := d.ResolveAccounting(onHand.Add(oldApproved)); err != nil {
			return err
		}

		if err := s.mutator.Reapply(ctx, d.ItemID, oldApproved.Neg(), d.ApprovedQty.Neg()); err != nil {
			return err
		}

		d.Touch()
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update dispatch: %w", err)
		}

		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.ActionUpdate, updated)

	return updated, nil
}

// Delete removes a dispatch and returns its approved quantity to stock.
func (s *Service) Delete(ctx context.Context, dispatchID id.ID) error {
	var deleted *Dispatch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByID(ctx, dispatchID)
		if err != nil {
			return err
		}

		if err := s.mutator.Reverse(ctx, d.ItemID, d.ApprovedQty.Neg()); err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, dispatchID); err != nil {
			return err
		}

		deleted = d
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, audit.ActionDelete, deleted)

	logger.Info(ctx, "dispatch deleted", "id", dispatchID, "item_id", deleted.ItemID)
	return nil
}

// GetByID retrieves a dispatch.
func (s *Service) GetByID(ctx context.Context, dispatchID id.ID) (*Dispatch, error) {
	return s.repo.GetByID(ctx, dispatchID)
}

// List retrieves dispatches with filtering.
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

func (s *Service) recordAudit(ctx context.Context, action audit.Action, d *Dispatch) {
	changes, _ := json.Marshal(d)
	err := s.auditor.Record(ctx, audit.Entry{
		EntityType: "Dispatch",
		EntityID:   d.ID.String(),
		Action:     action,
		ActorID:    actor.GetID(ctx),
		Changes:    changes,
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed", "entity", "Dispatch", "id", d.ID, "error", err)
	}
}
