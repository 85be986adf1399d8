package dto

import (
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/movements/adjustment"
)

// --- Adjustment ---

// AdjustStockRequest represents a manual stock correction.
type AdjustStockRequest struct {
	Delta  types.Quantity `json:"delta" binding:"required"`
	Reason string         `json:"reason"`
}

// AdjustStockResponse reports the correction and surrounding quantities.
type AdjustStockResponse struct {
	ID               string         `json:"id"`
	ItemID           string         `json:"itemId"`
	Delta            types.Quantity `json:"delta"`
	Reason           string         `json:"reason"`
	PreviousQuantity types.Quantity `json:"previousQuantity"`
	NewQuantity      types.Quantity `json:"newQuantity"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// AdjustmentResponse represents an adjustment in API responses.
type AdjustmentResponse struct {
	ID        string         `json:"id"`
	ItemID    string         `json:"itemId"`
	Delta     types.Quantity `json:"delta"`
	Reason    string         `json:"reason"`
	CreatedBy string         `json:"createdBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FromAdjustment converts domain entity to response DTO.
func FromAdjustment(a *adjustment.Adjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:        a.ID.String(),
		ItemID:    a.ItemID.String(),
		Delta:     a.Delta,
		Reason:    a.Reason,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

// --- Reconstruction ---

// OpeningQuantityResponse reports the reconstructed quantity at the
// start of a reporting window.
type OpeningQuantityResponse struct {
	ItemID          string         `json:"itemId"`
	WindowStart     time.Time      `json:"windowStart"`
	WindowEnd       time.Time      `json:"windowEnd"`
	OpeningQuantity types.Quantity `json:"openingQuantity"`
}

// --- History ---

// HistoryEntryResponse is one row of the merged movement history.
type HistoryEntryResponse struct {
	RecordID         string         `json:"recordId"`
	Type             string         `json:"type"`
	Date             time.Time      `json:"date"`
	DocumentNo       string         `json:"documentNo,omitempty"`
	CounterpartyID   string         `json:"counterpartyId,omitempty"`
	CounterpartyName string         `json:"counterpartyName,omitempty"`
	Quantity         types.Quantity `json:"quantity"`
	BalanceAfter     types.Quantity `json:"balanceAfter"`
	Note             string         `json:"note,omitempty"`
}

// FromHistoryEntry converts a ledger history entry to response DTO.
func FromHistoryEntry(e ledger.HistoryEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		RecordID:         e.RecordID.String(),
		Type:             string(e.Type),
		Date:             e.Date,
		DocumentNo:       e.DocumentNo,
		CounterpartyName: e.CounterpartyName,
		Quantity:         e.Quantity,
		BalanceAfter:     e.BalanceAfter,
		Note:             e.Note,
	}
	if !id.IsNil(e.CounterpartyID) {
		resp.CounterpartyID = e.CounterpartyID.String()
	}
	return resp
}

// HistoryResponse wraps the assembled history.
type HistoryResponse struct {
	ItemID  string                 `json:"itemId"`
	Entries []HistoryEntryResponse `json:"entries"`
}

// --- Turnover ---

// TurnoverResponse summarizes an item's movements over a window.
type TurnoverResponse struct {
	ItemID          string         `json:"itemId"`
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	OpeningQuantity types.Quantity `json:"openingQuantity"`
	Received        types.Quantity `json:"received"`
	Dispatched      types.Quantity `json:"dispatched"`
	Adjusted        types.Quantity `json:"adjusted"`
	ClosingQuantity types.Quantity `json:"closingQuantity"`
}

// FromTurnover converts a ledger turnover to response DTO.
func FromTurnover(t ledger.Turnover) TurnoverResponse {
	return TurnoverResponse{
		ItemID:          t.ItemID.String(),
		From:            t.From,
		To:              t.To,
		OpeningQuantity: t.OpeningQuantity,
		Received:        t.Received,
		Dispatched:      t.Dispatched,
		Adjusted:        t.Adjusted,
		ClosingQuantity: t.ClosingQuantity,
	}
}
