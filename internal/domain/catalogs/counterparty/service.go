package counterparty

import (
	"context"
	"fmt"

	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/pkg/logger"
)

// Service provides business operations for the counterparty catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new counterparty service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// CreateCommand holds the fields for registering a counterparty.
type CreateCommand struct {
	Code    string
	Name    string
	Type    Type
	Contact string
}

// Create registers a new counterparty.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Counterparty, error) {
	cp := New(cmd.Code, cmd.Name, cmd.Type)
	cp.Contact = cmd.Contact

	if err := cp.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("create counterparty: %w", err)
	}

	logger.Info(ctx, "counterparty created", "id", cp.ID, "code", cp.Code, "type", cp.Type)
	return cp, nil
}

// UpdateCommand holds the fields a caller may change.
type UpdateCommand struct {
	Code    *string
	Name    *string
	Type    *Type
	Contact *string
	Active  *bool
}

// Update changes counterparty fields.
func (s *Service) Update(ctx context.Context, cpID id.ID, cmd UpdateCommand) (*Counterparty, error) {
	var updated *Counterparty
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cp, err := s.repo.GetByID(ctx, cpID)
		if err != nil {
			return err
		}

		if cmd.Code != nil {
			cp.Code = *cmd.Code
		}
		if cmd.Name != nil {
			cp.Name = *cmd.Name
		}
		if cmd.Type != nil {
			cp.Type = *cmd.Type
		}
		if cmd.Contact != nil {
			cp.Contact = *cmd.Contact
		}
		if cmd.Active != nil {
			cp.Active = *cmd.Active
		}

		if err := cp.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, cp); err != nil {
			return fmt.Errorf("update counterparty: %w", err)
		}

		updated = cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// GetByID retrieves a counterparty.
func (s *Service) GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error) {
	return s.repo.GetByID(ctx, cpID)
}

// Delete removes a counterparty.
func (s *Service) Delete(ctx context.Context, cpID id.ID) error {
	return s.repo.Delete(ctx, cpID)
}

// List retrieves counterparties with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}
