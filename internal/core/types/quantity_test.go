package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quantity
		wantErr bool
	}{
		{name: "integer", input: "12", want: 120_000},
		{name: "fraction", input: "12.5", want: 125_000},
		{name: "four decimals", input: "-3.0001", want: -30_001},
		{name: "zero", input: "0", want: 0},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "12.5000", NewQuantityFromFloat64(12.5).String())
	assert.Equal(t, "-3.0001", Quantity(-30_001).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := MustQuantity("42.1234")

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "42.1234", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)

	// String form is accepted too.
	require.NoError(t, json.Unmarshal([]byte(`"7.25"`), &back))
	assert.Equal(t, MustQuantity("7.25"), back)
}

func TestQuantityArithmetic(t *testing.T) {
	a := MustQuantity("10")
	b := MustQuantity("2.5")

	assert.Equal(t, MustQuantity("12.5"), a.Add(b))
	assert.Equal(t, MustQuantity("7.5"), a.Sub(b))
	assert.Equal(t, MustQuantity("-10"), a.Neg())
	assert.Equal(t, MustQuantity("10"), a.Neg().Abs())
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.True(t, Quantity(0).IsZero())
	assert.True(t, b.IsPositive())
	assert.True(t, b.Neg().IsNegative())
}
