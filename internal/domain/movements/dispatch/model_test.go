package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

func qty(s string) types.Quantity { return types.MustQuantity(s) }

func newDispatch(approved, customerReturn, reject string) *Dispatch {
	return New(
		id.New(), id.New(), "DS-2026-00001",
		qty(approved), qty(customerReturn), qty(reject),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, newDispatch("10", "2", "1").Validate(ctx))

	err := newDispatch("10", "-1", "0").Validate(ctx)
	require.Error(t, err)

	err = newDispatch("10", "0", "-1").Validate(ctx)
	require.Error(t, err)
}

func TestResolveAccounting_DerivesRetainedAndTotal(t *testing.T) {
	d := newDispatch("60", "5", "3")

	require.NoError(t, d.ResolveAccounting(qty("100")))

	assert.Equal(t, qty("40"), d.RetainedQty)
	assert.Equal(t, qty("100"), d.TotalQty)
}

func TestResolveAccounting_ExactStockRetainsNothing(t *testing.T) {
	d := newDispatch("100", "0", "0")

	require.NoError(t, d.ResolveAccounting(qty("100")))

	assert.True(t, d.RetainedQty.IsZero())
	assert.Equal(t, qty("100"), d.TotalQty)
}

func TestResolveAccounting_CheckOrder(t *testing.T) {
	tests := []struct {
		name           string
		dispatch       *Dispatch
		available      string
		wantCode       string
		wantStockError bool
	}{
		{
			name:      "zero approved",
			dispatch:  newDispatch("0", "0", "0"),
			available: "100",
			wantCode:  apperror.CodeValidation,
		},
		{
			name:      "negative approved",
			dispatch:  newDispatch("-5", "0", "0"),
			available: "100",
			wantCode:  apperror.CodeValidation,
		},
		{
			// Even against empty stock the non-positive check fires first.
			name:      "zero approved beats insufficient stock",
			dispatch:  newDispatch("0", "0", "0"),
			available: "0",
			wantCode:  apperror.CodeValidation,
		},
		{
			name:      "return plus reject exceeds approved",
			dispatch:  newDispatch("10", "8", "3"),
			available: "100",
			wantCode:  apperror.CodeValidation,
		},
		{
			// The return/reject check fires before the stock check.
			name:           "bad split beats insufficient stock",
			dispatch:       newDispatch("10", "8", "3"),
			available:      "5",
			wantCode:       apperror.CodeValidation,
			wantStockError: false,
		},
		{
			name:           "approved exceeds available",
			dispatch:       newDispatch("101", "0", "0"),
			available:      "100",
			wantStockError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dispatch.ResolveAccounting(qty(tt.available))
			require.Error(t, err)

			if tt.wantStockError {
				assert.True(t, apperror.IsInsufficientStock(err))
				return
			}

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestResolveAccounting_ReturnPlusRejectMayEqualApproved(t *testing.T) {
	d := newDispatch("10", "7", "3")

	require.NoError(t, d.ResolveAccounting(qty("50")))
	assert.Equal(t, qty("40"), d.RetainedQty)
}
