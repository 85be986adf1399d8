package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/movements/receipt"
)

// --- Request DTOs ---

// CreateReceiptRequest represents a request to record a receipt.
// DocumentNo may be blank; the server assigns the next number.
type CreateReceiptRequest struct {
	ItemID     string         `json:"itemId" binding:"required,uuid"`
	SupplierID string         `json:"supplierId" binding:"required,uuid"`
	DocumentNo string         `json:"documentNo,omitempty"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Date       time.Time      `json:"date" binding:"required"`
}

// UpdateReceiptRequest represents a request to edit a receipt.
// The item reference cannot change.
type UpdateReceiptRequest struct {
	SupplierID *string         `json:"supplierId,omitempty" binding:"omitempty,uuid"`
	DocumentNo *string         `json:"documentNo,omitempty"`
	Quantity   *types.Quantity `json:"quantity,omitempty"`
	Date       *time.Time      `json:"date,omitempty"`
}

// --- Response DTOs ---

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID               string         `json:"id"`
	Version          int            `json:"version"`
	Date             time.Time      `json:"date"`
	DocumentNo       string         `json:"documentNo"`
	SupplierID       string         `json:"supplierId"`
	ItemID           string         `json:"itemId"`
	QuantityReceived types.Quantity `json:"quantityReceived"`
	CreatedBy        string         `json:"createdBy,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// FromReceipt converts domain entity to response DTO.
func FromReceipt(rec *receipt.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:               rec.ID.String(),
		Version:          rec.Version,
		Date:             rec.Date,
		DocumentNo:       rec.DocumentNo,
		SupplierID:       rec.CounterpartyID.String(),
		ItemID:           rec.ItemID.String(),
		QuantityReceived: rec.QuantityReceived,
		CreatedBy:        rec.CreatedBy,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// ReceiptListResponse represents a list of receipts.
type ReceiptListResponse struct {
	Items      []*ReceiptResponse `json:"items"`
	TotalCount int64              `json:"totalCount"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}
