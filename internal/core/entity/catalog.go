package entity

import (
	"context"

	"stockledger/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Items, Counterparties.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Active indicates whether the record participates in new operations
	Active bool `db:"active" json:"active"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		Active:     true,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	// Code can be auto-generated, so it's optional at creation

	return nil
}
