package item

import (
	"context"
	"fmt"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/pkg/logger"
)

// Service provides business operations for the item catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// CreateCommand holds the fields a caller may set when registering an item.
// CurrentQuantity is deliberately absent: new items start at zero and only
// movements change stock.
type CreateCommand struct {
	Code            string
	Name            string
	Category        string
	Unit            string
	MinimumQuantity types.Quantity
}

// Create registers a new item with zero stock.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Item, error) {
	it := New(cmd.Code, cmd.Name, cmd.Unit)
	it.Category = cmd.Category
	it.MinimumQuantity = cmd.MinimumQuantity

	if err := it.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "code", it.Code)
	return it, nil
}

// UpdateCommand holds the catalog fields a caller may change.
// Nil pointers leave the field untouched.
type UpdateCommand struct {
	Code            *string
	Name            *string
	Category        *string
	Unit            *string
	MinimumQuantity *types.Quantity
	Active          *bool
}

// Update changes catalog fields. The derived quantity cannot be set this way.
func (s *Service) Update(ctx context.Context, itemID id.ID, cmd UpdateCommand) (*Item, error) {
	var updated *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		if cmd.Code != nil {
			it.Code = *cmd.Code
		}
		if cmd.Name != nil {
			it.Name = *cmd.Name
		}
		if cmd.Category != nil {
			it.Category = *cmd.Category
		}
		if cmd.Unit != nil {
			it.Unit = *cmd.Unit
		}
		if cmd.MinimumQuantity != nil {
			it.MinimumQuantity = *cmd.MinimumQuantity
		}
		if cmd.Active != nil {
			it.Active = *cmd.Active
		}

		if err := it.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, it); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes an item. Items with movement history cannot be deleted;
// deactivate them instead.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referenced, err := s.repo.HasMovements(ctx, itemID)
		if err != nil {
			return fmt.Errorf("check movements: %w", err)
		}
		if referenced {
			return apperror.NewItemReferenced(itemID.String())
		}

		return s.repo.Delete(ctx, itemID)
	})
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// LowStock returns active items at or below their minimum quantity.
func (s *Service) LowStock(ctx context.Context) ([]*Item, error) {
	result, err := s.repo.List(ctx, ListFilter{
		ActiveOnly:   true,
		BelowMinimum: true,
		Limit:        500,
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}
