package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/id"
	"stockledger/internal/domain/ledger"
)

// LedgerRepo merges the three movement streams into one ordered event
// list. The UNION keeps normalization in SQL so replay code never knows
// which table an event came from.
type LedgerRepo struct {
	txm *TxManager
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{txm: txm}
}

const ledgerEventsSQL = `
	SELECT r.id              AS record_id,
	       'receipt'         AS event_type,
	       r.date            AS at,
	       r.created_at      AS created_at,
	       r.document_no     AS document_no,
	       r.counterparty_id AS counterparty_id,
	       COALESCE(c.name, '') AS counterparty_name,
	       r.quantity_received AS quantity,
	       ''                AS note
	FROM receipts r
	LEFT JOIN counterparties c ON c.id = r.counterparty_id
	WHERE r.item_id = $1

	UNION ALL

	SELECT d.id              AS record_id,
	       'dispatch'        AS event_type,
	       d.date            AS at,
	       d.created_at      AS created_at,
	       d.document_no     AS document_no,
	       d.counterparty_id AS counterparty_id,
	       COALESCE(c.name, '') AS counterparty_name,
	       d.approved_qty    AS quantity,
	       ''                AS note
	FROM dispatches d
	LEFT JOIN counterparties c ON c.id = d.counterparty_id
	WHERE d.item_id = $1

	UNION ALL

	SELECT a.id              AS record_id,
	       'adjustment'      AS event_type,
	       a.created_at      AS at,
	       a.created_at      AS created_at,
	       ''                AS document_no,
	       '00000000-0000-0000-0000-000000000000'::uuid AS counterparty_id,
	       ''                AS counterparty_name,
	       a.delta           AS quantity,
	       a.reason          AS note
	FROM adjustments a
	WHERE a.item_id = $1
`

// ListEvents returns the item's merged movement events ascending by
// (business date, creation time).
func (r *LedgerRepo) ListEvents(ctx context.Context, itemID id.ID, filter ledger.EventFilter) ([]ledger.Event, error) {
	var b strings.Builder
	b.WriteString("SELECT * FROM (")
	b.WriteString(ledgerEventsSQL)
	b.WriteString(") events")

	args := []any{itemID}
	var conds []string
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("at <= $%d", len(args)))
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY at, created_at")

	var events []ledger.Event
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &events, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}

	return events, nil
}
