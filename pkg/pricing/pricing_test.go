package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-inventory/pkg/pricing"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		original string
		rate     string
		want     string
	}{
		{name: "zero discount", original: "100", rate: "0", want: "100"},
		{name: "half discount", original: "100", rate: "50", want: "50"},
		{name: "full discount", original: "100", rate: "100", want: "0"},
		{name: "twenty percent", original: "100", rate: "20", want: "80"},
		{name: "ten percent of fifty", original: "50", rate: "10", want: "45"},
		{name: "fractional rate", original: "75", rate: "33.33", want: "50.0025"},
		{name: "free product", original: "0", rate: "50", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.DiscountedPrice(decimal.RequireFromString(tt.original), decimal.RequireFromString(tt.rate))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	t.Run("Should stay within tolerance of the float result", func(t *testing.T) {
		got, err := pricing.DiscountedPrice(decimal.NewFromInt(75), decimal.RequireFromString("33.33"))
		require.NoError(t, err)
		assert.InDelta(t, 50.0025, got.InexactFloat64(), 0.001)
	})

	t.Run("Should reject a negative original price", func(t *testing.T) {
		_, err := pricing.DiscountedPrice(decimal.NewFromInt(-100), decimal.NewFromInt(20))
		assert.ErrorIs(t, err, pricing.ErrInvalidArgument)
	})

	for _, rate := range []int64{-10, 150} {
		t.Run("Should reject out of range rate", func(t *testing.T) {
			_, err := pricing.DiscountedPrice(decimal.NewFromInt(100), decimal.NewFromInt(rate))
			assert.ErrorIs(t, err, pricing.ErrInvalidArgument)
		})
	}
}

func TestIsQuantitySufficient(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		required int
		want     bool
	}{
		{name: "sufficient", current: 100, required: 50, want: true},
		{name: "insufficient", current: 30, required: 50, want: false},
		{name: "exact match", current: 50, required: 50, want: true},
		{name: "zero required", current: 100, required: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.IsQuantitySufficient(tt.current, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Should reject a negative current quantity", func(t *testing.T) {
		_, err := pricing.IsQuantitySufficient(-10, 5)
		assert.ErrorIs(t, err, pricing.ErrInvalidArgument)
	})

	t.Run("Should reject a negative required quantity", func(t *testing.T) {
		_, err := pricing.IsQuantitySufficient(100, -5)
		assert.ErrorIs(t, err, pricing.ErrInvalidArgument)
	})
}
