package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDiscount(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name         string
		points       int
		gross        string
		wantDiscount string
		wantUsed     int
	}{
		{"no points", 0, "40.00", "0", 0},
		{"negative points", -5, "40.00", "0", 0},
		{"zero gross", 100, "0", "0", 0},
		{"under the cap", 100, "40.00", "10", 100},
		{"exactly at the cap", 200, "40.00", "20", 200},
		{"over the cap consumes only what fits", 500, "40.00", "20", 200},
		{"small gross", 100, "1.00", "0.5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, used := policy.Discount(tt.points, dec(t, tt.gross))
			assert.Equal(t, tt.wantDiscount, discount.String())
			assert.Equal(t, tt.wantUsed, used)
		})
	}
}

func TestDiscountNeverExceedsHalfGross(t *testing.T) {
	policy := DefaultPolicy()
	gross := dec(t, "37.50")

	discount, used := policy.Discount(10000, gross)

	half := gross.Div(decimal.NewFromInt(2))
	assert.True(t, discount.LessThanOrEqual(half), "discount %s exceeds half of %s", discount, gross)
	assert.Equal(t, 187, used)
}

func TestEarnedPoints(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name   string
		amount string
		want   int
	}{
		{"whole units only", "37.50", 37},
		{"rounds down", "0.99", 0},
		{"exact", "20.00", 20},
		{"zero", "0", 0},
		{"negative", "-5.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.EarnedPoints(dec(t, tt.amount)))
		})
	}
}
