package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/catalogs/item"
	"stockledger/internal/domain/stock"
)

var itemColumns = []string{
	"id", "version", "code", "name", "active",
	"category", "unit", "current_quantity", "minimum_quantity",
}

// ItemRepo is the PostgreSQL item catalog.
// It also backs the stock mutator (row-locked quantity reads/writes) and
// the ledger's current-quantity anchor, so every consumer sees one row.
type ItemRepo struct {
	txm *TxManager
}

// Compile-time checks.
var (
	_ item.Repository = (*ItemRepo)(nil)
	_ stock.ItemStore = (*ItemRepo)(nil)
)

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{txm: txm}
}

func (r *ItemRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(itemColumns...).From("items")
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	q := r.builder().
		Insert("items").
		Columns(itemColumns...).
		Values(
			it.ID, it.Version, it.Code, it.Name, it.Active,
			it.Category, it.Unit, it.CurrentQuantity, it.MinimumQuantity,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}

	return &it, nil
}

// GetByCode retrieves an item by code.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"code": code}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", code)
		}
		return nil, fmt.Errorf("get item by code: %w", err)
	}

	return &it, nil
}

// Update modifies catalog fields with optimistic locking.
// current_quantity is deliberately absent from the SET list; only
// SetQuantity writes it.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	q := r.builder().
		Update("items").
		Set("code", it.Code).
		Set("name", it.Name).
		Set("active", it.Active).
		Set("category", it.Category).
		Set("unit", it.Unit).
		Set("minimum_quantity", it.MinimumQuantity).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": it.ID}).
		Where(squirrel.Eq{"version": it.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("item", it.ID.String())
	}

	it.SetVersion(it.Version + 1)
	return nil
}

// Delete removes an item.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := r.builder().
		Delete("items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}

// List retrieves items with filtering and pagination.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (item.ListResult, error) {
	q := r.baseSelect()
	countQ := r.builder().Select("COUNT(*)").From("items")

	apply := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(squirrel.Or{
				squirrel.ILike{"code": pattern},
				squirrel.ILike{"name": pattern},
			})
		}
		if filter.Category != "" {
			b = b.Where(squirrel.Eq{"category": filter.Category})
		}
		if filter.ActiveOnly {
			b = b.Where(squirrel.Eq{"active": true})
		}
		if filter.BelowMinimum {
			b = b.Where("minimum_quantity > 0 AND current_quantity <= minimum_quantity")
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
		return item.ListResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return item.ListResult{}, fmt.Errorf("count items: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return item.ListResult{}, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return item.ListResult{}, fmt.Errorf("list items: %w", err)
	}

	return item.ListResult{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// Exists reports whether the item exists.
func (r *ItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	var exists bool
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)", itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}
	return exists, nil
}

// HasMovements reports whether any movement record references the item.
func (r *ItemRepo) HasMovements(ctx context.Context, itemID id.ID) (bool, error) {
	var has bool
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM receipts WHERE item_id = $1)
		    OR EXISTS(SELECT 1 FROM dispatches WHERE item_id = $1)
		    OR EXISTS(SELECT 1 FROM adjustments WHERE item_id = $1)
	`, itemID).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("check item movements: %w", err)
	}
	return has, nil
}

// GetQuantityForUpdate returns the item's quantity with a row lock held
// for the rest of the transaction. Implements stock.ItemStore.
func (r *ItemRepo) GetQuantityForUpdate(ctx context.Context, itemID id.ID) (stock.ItemQuantity, error) {
	var iq stock.ItemQuantity

	sql := `
		SELECT id AS item_id, current_quantity AS quantity, active
		FROM items
		WHERE id = $1
		FOR UPDATE
	`

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &iq, sql, itemID); err != nil {
		if pgxscan.NotFound(err) {
			return iq, apperror.NewNotFound("item", itemID.String())
		}
		return iq, fmt.Errorf("get quantity for update: %w", err)
	}

	return iq, nil
}

// SetQuantity writes the derived quantity. Implements stock.ItemStore.
func (r *ItemRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx,
		"UPDATE items SET current_quantity = $1 WHERE id = $2",
		quantity, itemID,
	)
	if err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// CurrentQuantity returns the item's quantity without locking.
// The ledger anchors running balances on it inside snapshot reads.
func (r *ItemRepo) CurrentQuantity(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	var qty types.Quantity
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx,
		"SELECT current_quantity FROM items WHERE id = $1", itemID,
	).Scan(&qty)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("item", itemID.String())
		}
		return 0, fmt.Errorf("get current quantity: %w", err)
	}
	return qty, nil
}
