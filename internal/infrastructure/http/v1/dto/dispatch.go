package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/movements/dispatch"
)

// --- Request DTOs ---

// CreateDispatchRequest represents a request to record a dispatch.
type CreateDispatchRequest struct {
	ItemID            string         `json:"itemId" binding:"required,uuid"`
	CustomerID        string         `json:"customerId" binding:"required,uuid"`
	DocumentNo        string         `json:"documentNo,omitempty"`
	ApprovedQty       types.Quantity `json:"approvedQty" binding:"required"`
	CustomerReturnQty types.Quantity `json:"customerReturnQty,omitempty"`
	RejectQty         types.Quantity `json:"rejectQty,omitempty"`
	Date              time.Time      `json:"date" binding:"required"`
}

// UpdateDispatchRequest represents a request to edit a dispatch.
// The item reference cannot change.
type UpdateDispatchRequest struct {
	CustomerID        *string         `json:"customerId,omitempty" binding:"omitempty,uuid"`
	DocumentNo        *string         `json:"documentNo,omitempty"`
	ApprovedQty       *types.Quantity `json:"approvedQty,omitempty"`
	CustomerReturnQty *types.Quantity `json:"customerReturnQty,omitempty"`
	RejectQty         *types.Quantity `json:"rejectQty,omitempty"`
	Date              *time.Time      `json:"date,omitempty"`
}

// --- Response DTOs ---

// DispatchResponse represents a dispatch in API responses.
// retainedQty and totalQty are the stored accounting resolution.
type DispatchResponse struct {
	ID                string         `json:"id"`
	Version           int            `json:"version"`
	Date              time.Time      `json:"date"`
	DocumentNo        string         `json:"documentNo"`
	CustomerID        string         `json:"customerId"`
	ItemID            string         `json:"itemId"`
	ApprovedQty       types.Quantity `json:"approvedQty"`
	CustomerReturnQty types.Quantity `json:"customerReturnQty"`
	RejectQty         types.Quantity `json:"rejectQty"`
	RetainedQty       types.Quantity `json:"retainedQty"`
	TotalQty          types.Quantity `json:"totalQty"`
	CreatedBy         string         `json:"createdBy,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// FromDispatch converts domain entity to response DTO.
func FromDispatch(d *dispatch.Dispatch) *DispatchResponse {
	return &DispatchResponse{
		ID:                d.ID.String(),
		Version:           d.Version,
		Date:              d.Date,
		DocumentNo:        d.DocumentNo,
		CustomerID:        d.CounterpartyID.String(),
		ItemID:            d.ItemID.String(),
		ApprovedQty:       d.ApprovedQty,
		CustomerReturnQty: d.CustomerReturnQty,
		RejectQty:         d.RejectQty,
		RetainedQty:       d.RetainedQty,
		TotalQty:          d.TotalQty,
		CreatedBy:         d.CreatedBy,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// DispatchListResponse represents a list of dispatches.
type DispatchListResponse struct {
	Items      []*DispatchResponse `json:"items"`
	TotalCount int64               `json:"totalCount"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}
