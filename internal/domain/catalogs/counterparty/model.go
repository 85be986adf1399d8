// Package counterparty provides the business-partner catalog.
// Counterparties scope document-number uniqueness: a supplier may not reuse a
// document number, but two different suppliers may share one.
package counterparty

import (
	"context"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/entity"
)

// Type defines the role of a counterparty.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeBoth     Type = "both"
)

// Counterparty represents a business partner goods move to or from.
type Counterparty struct {
	entity.Catalog

	// Type defines whether this is a customer, supplier, or both
	Type Type `db:"type" json:"type"`

	// Contact is free-form contact information
	Contact string `db:"contact" json:"contact,omitempty"`
}

// New creates a new counterparty.
func New(code, name string, cpType Type) *Counterparty {
	return &Counterparty{
		Catalog: entity.NewCatalog(code, name),
		Type:    cpType,
	}
}

// Validate implements entity.Validatable.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch c.Type {
	case TypeCustomer, TypeSupplier, TypeBoth:
	default:
		return apperror.NewValidation("type must be customer, supplier or both").
			WithDetail("field", "type")
	}

	return nil
}

// CanSupply reports whether receipts may reference this counterparty.
func (c *Counterparty) CanSupply() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}

// CanBuy reports whether dispatches may reference this counterparty.
func (c *Counterparty) CanBuy() bool {
	return c.Type == TypeCustomer || c.Type == TypeBoth
}
