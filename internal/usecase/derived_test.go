package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflens/backend/internal/domain"
)

func TestRiskPercent(t *testing.T) {
	// 20 points per harmful ingredient, clamped at 100
	expected := []int{0, 20, 40, 60, 80, 100, 100}

	for count, want := range expected {
		harmful := make([]string, count)
		assert.Equal(t, want, RiskPercent(harmful), "count %d", count)
	}
}

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		priceUSD float64
		currency string
		want     string
	}{
		{10.0, "USD", "$10.00"},
		{10.0, "INR", "₹830.00"},
		{10.0, "EUR", "€9.20"},
		{10.0, "GBP", "£7.90"},
		{10.0, "XYZ", "$10.00"}, // unknown code falls back to USD
		{0, "USD", "$0.00"},
		{1.555, "USD", "$1.56"},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayPrice(tt.priceUSD, tt.currency))
		})
	}
}

func TestBuildDerivedView(t *testing.T) {
	record := &domain.ProductRecord{
		ProductName:    "Instant Noodles",
		HarmfulContent: []string{"MSG", "Palm oil", "Sodium", "TBHQ", "Artificial flavor", "Colorant"},
		PriceHistory: []domain.PricePoint{
			{Year: 2020, PriceUSD: 0.5},
			{Year: 2024, PriceUSD: 1.0},
		},
	}

	view := BuildDerivedView(record, "INR")

	assert.Equal(t, 100, view.HealthRiskPercent)
	assert.Equal(t, "INR", view.Currency)
	require.Len(t, view.PriceHistory, 2)
	assert.Equal(t, domain.DisplayPrice{Year: 2020, Display: "₹41.50"}, view.PriceHistory[0])
	assert.Equal(t, domain.DisplayPrice{Year: 2024, Display: "₹83.00"}, view.PriceHistory[1])
}

func TestBuildDerivedView_UnknownCurrency(t *testing.T) {
	record := &domain.ProductRecord{
		PriceHistory: []domain.PricePoint{{Year: 2024, PriceUSD: 2.0}},
	}

	view := BuildDerivedView(record, "XYZ")

	assert.Equal(t, "USD", view.Currency)
	assert.Equal(t, "$2.00", view.PriceHistory[0].Display)
	assert.Equal(t, 0, view.HealthRiskPercent)
}
