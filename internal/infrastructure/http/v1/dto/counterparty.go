package dto

import (
	"stockledger/internal/domain/catalogs/counterparty"
)

// --- Request DTOs ---

// CreateCounterpartyRequest represents a request to create a counterparty.
type CreateCounterpartyRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=customer supplier both"`
	Contact string `json:"contact,omitempty"`
}

// UpdateCounterpartyRequest represents a request to update a counterparty.
type UpdateCounterpartyRequest struct {
	Code    *string `json:"code,omitempty"`
	Name    *string `json:"name,omitempty"`
	Type    *string `json:"type,omitempty" binding:"omitempty,oneof=customer supplier both"`
	Contact *string `json:"contact,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// --- Response DTOs ---

// CounterpartyResponse represents a counterparty in API responses.
type CounterpartyResponse struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Type    string `json:"type"`
	Contact string `json:"contact,omitempty"`
}

// FromCounterparty converts domain entity to response DTO.
func FromCounterparty(cp *counterparty.Counterparty) *CounterpartyResponse {
	return &CounterpartyResponse{
		ID:      cp.ID.String(),
		Version: cp.Version,
		Code:    cp.Code,
		Name:    cp.Name,
		Active:  cp.Active,
		Type:    string(cp.Type),
		Contact: cp.Contact,
	}
}

// CounterpartyListResponse represents a list of counterparties.
type CounterpartyListResponse struct {
	Items      []*CounterpartyResponse `json:"items"`
	TotalCount int64                   `json:"totalCount"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}
