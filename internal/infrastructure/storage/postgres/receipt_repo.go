package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/movements/receipt"
)

var receiptColumns = []string{
	"id", "version", "date", "document_no", "counterparty_id", "item_id",
	"quantity_received", "created_by", "created_at", "updated_at",
}

// ReceiptRepo is the PostgreSQL receipt store.
type ReceiptRepo struct {
	txm *TxManager
}

var _ receipt.Repository = (*ReceiptRepo)(nil)

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txm *TxManager) *ReceiptRepo {
	return &ReceiptRepo{txm: txm}
}

func (r *ReceiptRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new receipt.
func (r *ReceiptRepo) Create(ctx context.Context, rec *receipt.Receipt) error {
	q := r.builder().
		Insert("receipts").
		Columns(receiptColumns...).
		Values(
			rec.ID, rec.Version, rec.Date, rec.DocumentNo, rec.CounterpartyID,
			rec.ItemID, rec.QuantityReceived, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	return nil
}

// GetByID retrieves a receipt by ID.
func (r *ReceiptRepo) GetByID(ctx context.Context, recID id.ID) (*receipt.Receipt, error) {
	q := r.builder().
		Select(receiptColumns...).
		From("receipts").
		Where(squirrel.Eq{"id": recID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec receipt.Receipt
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipt", recID.String())
		}
		return nil, fmt.Errorf("get receipt by id: %w", err)
	}

	return &rec, nil
}

// Update modifies a receipt with optimistic locking.
func (r *ReceiptRepo) Update(ctx context.Context, rec *receipt.Receipt) error {
	q := r.builder().
		Update("receipts").
		Set("date", rec.Date).
		Set("document_no", rec.DocumentNo).
		Set("counterparty_id", rec.CounterpartyID).
		Set("quantity_received", rec.QuantityReceived).
		Set("updated_at", rec.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rec.ID}).
		Where(squirrel.Eq{"version": rec.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update receipt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("receipt", rec.ID.String())
	}

	return nil
}

// Delete removes a receipt.
func (r *ReceiptRepo) Delete(ctx context.Context, recID id.ID) error {
	sql, args, err := r.builder().
		Delete("receipts").
		Where(squirrel.Eq{"id": recID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("receipt", recID.String())
	}

	return nil
}

// List retrieves receipts with filtering and pagination.
func (r *ReceiptRepo) List(ctx context.Context, filter receipt.ListFilter) (receipt.ListResult, error) {
	q := r.builder().Select(receiptColumns...).From("receipts")
	countQ := r.builder().Select("COUNT(*)").From("receipts")

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
		return receipt.ListResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return receipt.ListResult{}, fmt.Errorf("count receipts: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return receipt.ListResult{}, fmt.Errorf("build query: %w", err)
	}

	var recs []*receipt.Receipt
	if err := pgxscan.Select(ctx, querier, &recs, sql, args...); err != nil {
		return receipt.ListResult{}, fmt.Errorf("list receipts: %w", err)
	}

	return receipt.ListResult{
		Items:      recs,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ExistsByDocumentNo checks document-number uniqueness within the counterparty scope.
func (r *ReceiptRepo) ExistsByDocumentNo(ctx context.Context, counterpartyID id.ID, documentNo string, excludeID id.ID) (bool, error) {
	var exists bool
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM receipts
			WHERE counterparty_id = $1 AND document_no = $2 AND id <> $3
		)
	`, counterpartyID, documentNo, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check receipt document number: %w", err)
	}
	return exists, nil
}
