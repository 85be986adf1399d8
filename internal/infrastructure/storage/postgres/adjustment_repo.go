package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/movements/adjustment"
)

var adjustmentColumns = []string{
	"id", "version", "item_id", "delta", "reason", "created_by", "created_at",
}

// AdjustmentRepo is the PostgreSQL adjustment store. Append-only.
type AdjustmentRepo struct {
	txm *TxManager
}

var _ adjustment.Repository = (*AdjustmentRepo)(nil)

// NewAdjustmentRepo creates a new adjustment repository.
func NewAdjustmentRepo(txm *TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{txm: txm}
}

func (r *AdjustmentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new adjustment.
func (r *AdjustmentRepo) Create(ctx context.Context, a *adjustment.Adjustment) error {
	q := r.builder().
		Insert("adjustments").
		Columns(adjustmentColumns...).
		Values(a.ID, a.Version, a.ItemID, a.Delta, a.Reason, a.CreatedBy, a.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}

	return nil
}

// GetByID retrieves an adjustment by ID.
func (r *AdjustmentRepo) GetByID(ctx context.Context, adjustmentID id.ID) (*adjustment.Adjustment, error) {
	q := r.builder().
		Select(adjustmentColumns...).
		From("adjustments").
		Where(squirrel.Eq{"id": adjustmentID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a adjustment.Adjustment
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("adjustment", adjustmentID.String())
		}
		return nil, fmt.Errorf("get adjustment by id: %w", err)
	}

	return &a, nil
}

// ListByItem retrieves adjustments for an item, newest first.
func (r *AdjustmentRepo) ListByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]*adjustment.Adjustment, error) {
	q := r.builder().
		Select(adjustmentColumns...).
		From("adjustments").
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("created_at DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var adjs []*adjustment.Adjustment
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &adjs, sql, args...); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	return adjs, nil
}
