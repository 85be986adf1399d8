package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/movements/dispatch"
)

var dispatchColumns = []string{
	"id", "version", "date", "document_no", "counterparty_id", "item_id",
	"approved_qty", "customer_return_qty", "reject_qty", "retained_qty", "total_qty",
	"created_by", "created_at", "updated_at",
}

// DispatchRepo is the PostgreSQL dispatch store.
type DispatchRepo struct {
	txm *TxManager
}

var _ dispatch.Repository = (*DispatchRepo)(nil)

// NewDispatchRepo creates a new dispatch repository.
func NewDispatchRepo(txm *TxManager) *DispatchRepo {
	return &DispatchRepo{txm: txm}
}

func (r *DispatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new dispatch.
func (r *DispatchRepo) Create(ctx context.Context, d *dispatch.Dispatch) error {
	q := r.builder().
		Insert("dispatches").
		Columns(dispatchColumns...).
		Values(
			d.ID, d.Version, d.Date, d.DocumentNo, d.CounterpartyID, d.ItemID,
			d.ApprovedQty, d.CustomerReturnQty, d.RejectQty, d.RetainedQty, d.TotalQty,
			d.CreatedBy, d.CreatedAt, d.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert dispatch: %w", err)
	}

	return nil
}

// GetByID retrieves a dispatch by ID.
func (r *DispatchRepo) GetByID(ctx context.Context, dispatchID id.ID) (*dispatch.Dispatch, error) {
	q := r.builder().
		Select(dispatchColumns...).
		From("dispatches").
		Where(squirrel.Eq{"id": dispatchID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d dispatch.Dispatch
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("dispatch", dispatchID.String())
		}
		return nil, fmt.Errorf("get dispatch by id: %w", err)
	}

	return &d, nil
}

// Update modifies a dispatch with optimistic locking.
func (r *DispatchRepo) Update(ctx context.Context, d *dispatch.Dispatch) error {
	q := r.builder().
		Update("dispatches").
		Set("date", d.Date).
		Set("document_no", d.DocumentNo).
		Set("counterparty_id", d.CounterpartyID).
		Set("approved_qty", d.ApprovedQty).
		Set("customer_return_qty", d.CustomerReturnQty).
		Set("reject_qty", d.RejectQty).
		Set("retained_qty", d.RetainedQty).
		Set("total_qty", d.TotalQty).
		Set("updated_at", d.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": d.ID}).
		Where(squirrel.Eq{"version": d.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update dispatch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("dispatch", d.ID.String())
	}

	return nil
}

// Delete removes a dispatch.
func (r *DispatchRepo) Delete(ctx context.Context, dispatchID id.ID) error {
	sql, args, err := r.builder().
		Delete("dispatches").
		Where(squirrel.Eq{"id": dispatchID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete dispatch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("dispatch", dispatchID.String())
	}

	return nil
}

// List retrieves dispatches with filtering and pagination.
func (r *DispatchRepo) List(ctx context.Context, filter dispatch.ListFilter) (dispatch.ListResult, error) {
	q := r.builder().Select(dispatchColumns...).From("dispatches")
	countQ := r.builder().Select("COUNT(*)").From("dispatches")

	apply := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.ItemID != nil {
			b = b.Where(squirrel.Eq{"item_id": *filter.ItemID})
		}
		if filter.CounterpartyID != nil {
			b = b.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
		}
		if filter.DateFrom != nil {
			b = b.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
		}
		if filter.DateTo != nil {
			b = b.Where(squirrel.LtOrEq{"date": *filter.DateTo})
		}
		return b
	}

	q = apply(q).OrderBy("date DESC", "created_at DESC")
	countQ = apply(countQ)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return dispatch.ListResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return dispatch.ListResult{}, fmt.Errorf("count dispatches: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return dispatch.ListResult{}, fmt.Errorf("build query: %w", err)
	}

	var ds []*dispatch.Dispatch
	if err := pgxscan.Select(ctx, querier, &ds, sql, args...); err != nil {
		return dispatch.ListResult{}, fmt.Errorf("list dispatches: %w", err)
	}

	return dispatch.ListResult{
		Items:      ds,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ExistsByDocumentNo checks document-number uniqueness within the counterparty scope.
func (r *DispatchRepo) ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error) {
	var exists bool
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM dispatches
			WHERE counterparty_id = $1 AND document_no = $2 AND id <> $3
		)
	`, counterpartyID, documentNo, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check dispatch document number: %w", err)
	}
	return exists, nil
}
