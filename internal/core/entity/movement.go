package entity

import (
	"context"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
)

// MovementRecord contains common fields for stock-affecting records.
// Receipts and Dispatches embed it; ordering for business semantics is
// (date, created_at), chronological replay uses created_at alone.
type MovementRecord struct {
	BaseEntity

	// Date is the business date of the movement
	Date time.Time `db:"date" json:"date"`

	// DocumentNo identifies the paper document; unique per counterparty
	DocumentNo string `db:"document_no" json:"documentNo"`

	// CounterpartyID references the supplier or customer
	CounterpartyID id.ID `db:"counterparty_id" json:"counterpartyId"`

	// ItemID references the tracked item
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Audit fields
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewMovementRecord creates a movement record with generated ID and timestamps.
func NewMovementRecord(itemID, counterpartyID id.ID, documentNo string, date time.Time) MovementRecord {
	now := time.Now().UTC()
	return MovementRecord{
		BaseEntity:     NewBaseEntity(),
		Date:           date,
		DocumentNo:     documentNo,
		CounterpartyID: counterpartyID,
		ItemID:         itemID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (m *MovementRecord) Touch() {
	m.UpdatedAt = time.Now().UTC()
	m.BaseEntity.Touch()
}

// Validate implements Validatable interface.
func (m *MovementRecord) Validate(ctx context.Context) error {
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}

	if id.IsNil(m.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if m.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}
