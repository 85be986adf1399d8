package dto

import (
	"stockledger/internal/core/types"
	"stockledger/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest represents a request to create an item.
// Items always start with zero stock; receipts bring quantity in.
type CreateItemRequest struct {
	Code            string         `json:"code"`
	Name            string         `json:"name" binding:"required"`
	Category        string         `json:"category,omitempty"`
	Unit            string         `json:"unit" binding:"required"`
	MinimumQuantity types.Quantity `json:"minimumQuantity,omitempty"`
}

// UpdateItemRequest represents a request to update an item.
// currentQuantity is absent on purpose: it is derived state.
type UpdateItemRequest struct {
	Code            *string         `json:"code,omitempty"`
	Name            *string         `json:"name,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Unit            *string         `json:"unit,omitempty"`
	MinimumQuantity *types.Quantity `json:"minimumQuantity,omitempty"`
	Active          *bool           `json:"active,omitempty"`
}

// --- Response DTOs ---

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID              string         `json:"id"`
	Version         int            `json:"version"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Active          bool           `json:"active"`
	Category        string         `json:"category,omitempty"`
	Unit            string         `json:"unit"`
	CurrentQuantity types.Quantity `json:"currentQuantity"`
	MinimumQuantity types.Quantity `json:"minimumQuantity"`
	BelowMinimum    bool           `json:"belowMinimum"`
}

// FromItem converts domain entity to response DTO.
func FromItem(it *item.Item) *ItemResponse {
	return &ItemResponse{
		ID:              it.ID.String(),
		Version:         it.Version,
		Code:            it.Code,
		Name:            it.Name,
		Active:          it.Active,
		Category:        it.Category,
		Unit:            it.Unit,
		CurrentQuantity: it.CurrentQuantity,
		MinimumQuantity: it.MinimumQuantity,
		BelowMinimum:    it.BelowMinimum(),
	}
}

// ItemListResponse represents a list of items.
type ItemListResponse struct {
	Items      []*ItemResponse `json:"items"`
	TotalCount int64           `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}
