package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/catalogs/counterparty"
)

var counterpartyColumns = []string{
	"id", "version", "code", "name", "active", "type", "contact",
}

// CounterpartyRepo is the PostgreSQL counterparty catalog.
type CounterpartyRepo struct {
	txm *TxManager
}

var _ counterparty.Repository = (*CounterpartyRepo)(nil)

// NewCounterpartyRepo creates a new counterparty repository.
func NewCounterpartyRepo(txm *TxManager) *CounterpartyRepo {
	return &CounterpartyRepo{txm: txm}
}

func (r *CounterpartyRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *CounterpartyRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(counterpartyColumns...).From("counterparties")
}

// Create inserts a new counterparty.
func (r *CounterpartyRepo) Create(ctx context.Context, cp *counterparty.Counterparty) error {
	q := r.builder().
		Insert("counterparties").
		Columns(counterpartyColumns...).
		Values(cp.ID, cp.Version, cp.Code, cp.Name, cp.Active, cp.Type, cp.Contact)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert counterparty: %w", err)
	}

	return nil
}

// GetByID retrieves a counterparty by ID.
func (r *CounterpartyRepo) GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": cpID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cp counterparty.Counterparty
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &cp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("counterparty", cpID.String())
		}
		return nil, fmt.Errorf("get counterparty by id: %w", err)
	}

	return &cp, nil
}

// GetByCode retrieves a counterparty by code.
func (r *CounterpartyRepo) GetByCode(ctx context.Context, code string) (*counterparty.Counterparty, error) {
	q := r.baseSelect().Where(squirrel.Eq{"code": code}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cp counterparty.Counterparty
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &cp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("counterparty", code)
		}
		return nil, fmt.Errorf("get counterparty by code: %w", err)
	}

	return &cp, nil
}

// Update modifies a counterparty with optimistic locking.
func (r *CounterpartyRepo) Update(ctx context.Context, cp *counterparty.Counterparty) error {
	q := r.builder().
		Update("counterparties").
		Set("code", cp.Code).
		Set("name", cp.Name).
		Set("active", cp.Active).
		Set("type", cp.Type).
		Set("contact", cp.Contact).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": cp.ID}).
		Where(squirrel.Eq{"version": cp.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update counterparty: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("counterparty", cp.ID.String())
	}

	cp.SetVersion(cp.Version + 1)
	return nil
}

// Delete removes a counterparty.
func (r *CounterpartyRepo) Delete(ctx context.Context, cpID id.ID) error {
	sql, args, err := r.builder().
		Delete("counterparties").
		Where(squirrel.Eq{"id": cpID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete counterparty: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("counterparty", cpID.String())
	}

	return nil
}

// List retrieves counterparties with filtering and pagination.
func (r *CounterpartyRepo) List(ctx context.Context, filter counterparty.ListFilter) (counterparty.ListResult, error) {
	q := r.baseSelect()
	countQ := r.builder().Select("COUNT(*)").From("counterparties")

	apply := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(squirrel.Or{
				squirrel.ILike{"code": pattern},
				squirrel.ILike{"name": pattern},
			})
		}
		if filter.Type != nil {
			b = b.Where(squirrel.Eq{"type": *filter.Type})
		}
		if filter.ActiveOnly {
			b = b.Where(squirrel.Eq{"active": true})
		}
		return b
	}

	q = apply(q).OrderBy("code")
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
		return counterparty.ListResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return counterparty.ListResult{}, fmt.Errorf("count counterparties: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return counterparty.ListResult{}, fmt.Errorf("build query: %w", err)
	}

	var cps []*counterparty.Counterparty
	if err := pgxscan.Select(ctx, querier, &cps, sql, args...); err != nil {
		return counterparty.ListResult{}, fmt.Errorf("list counterparties: %w", err)
	}

	return counterparty.ListResult{
		Items:      cps,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// Exists reports whether the counterparty exists.
func (r *CounterpartyRepo) Exists(ctx context.Context, cpID id.ID) (bool, error) {
	var exists bool
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM counterparties WHERE id = $1)", cpID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check counterparty exists: %w", err)
	}
	return exists, nil
}
