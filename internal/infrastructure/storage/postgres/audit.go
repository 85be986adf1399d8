package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockledger/internal/core/id"
	"stockledger/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRow is a stored audit entry.
type AuditRow struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          string          `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	ActorID           string          `db:"actor_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditStore persists the activity trail. Large change payloads are
// zstd-compressed before storage. Implements audit.Recorder.
type AuditStore struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Recorder = (*AuditStore)(nil)

// NewAuditStore creates a new audit store.
func NewAuditStore(txm *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditStore{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	row := AuditRow{
		ID:              id.New(),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          entry.Action,
		ActorID:         entry.ActorID,
		Changes:         entry.Changes,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(row.Changes) > s.compressThreshold {
		row.ChangesCompressed = s.encoder.EncodeAll(row.Changes, nil)
		row.Changes = nil
		row.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, actor_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txm.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		row.ID, row.EntityType, row.EntityID, row.Action, row.ActorID,
		row.Changes, row.ChangesCompressed, row.CompressionAlgo, row.CreatedAt,
	)

	return err
}

// EntityHistory retrieves the audit trail for one entity, newest first.
func (s *AuditStore) EntityHistory(ctx context.Context, entityType, entityID string, limit int) ([]AuditRow, error) {
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT id, entity_type, entity_id, action, actor_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txm.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var entries []AuditRow
	for rows.Next() {
		var e AuditRow
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.ActorID,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.ChangesCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.ChangesCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes: %w", err)
			}
			e.Changes = decompressed
			e.ChangesCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
