// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
