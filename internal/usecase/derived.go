package usecase

import (
	"fmt"

	"github.com/shelflens/backend/internal/domain"
)

// currencyRates maps a currency code to its multiplier relative to the USD
// base. Static data, not live market rates.
var currencyRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"INR": 83.0,
	"JPY": 149.0,
	"CAD": 1.36,
	"AUD": 1.52,
}

// currencySymbols maps a currency code to its display symbol
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
}

// RiskPercent derives the simulated health-risk score from the number of
// flagged harmful ingredients: 20 points per entry, clamped at 100.
// Order and content of the list do not matter.
func RiskPercent(harmfulContent []string) int {
	percent := len(harmfulContent) * 20
	if percent > 100 {
		percent = 100
	}
	return percent
}

// DisplayPrice converts a USD price into the selected currency and formats
// it with the currency's symbol and two decimal places. An unrecognized
// code falls back to USD rather than failing.
func DisplayPrice(priceUSD float64, currencyCode string) string {
	rate, ok := currencyRates[currencyCode]
	symbol := currencySymbols[currencyCode]
	if !ok {
		rate = 1.0
		symbol = currencySymbols["USD"]
	}
	return fmt.Sprintf("%s%.2f", symbol, priceUSD*rate)
}

// BuildDerivedView computes the presentation values for a validated record
func BuildDerivedView(record *domain.ProductRecord, currencyCode string) *domain.DerivedView {
	if _, ok := currencyRates[currencyCode]; !ok {
		currencyCode = "USD"
	}

	prices := make([]domain.DisplayPrice, 0, len(record.PriceHistory))
	for _, p := range record.PriceHistory {
		prices = append(prices, domain.DisplayPrice{
			Year:    p.Year,
			Display: DisplayPrice(p.PriceUSD, currencyCode),
		})
	}

	return &domain.DerivedView{
		HealthRiskPercent: RiskPercent(record.HarmfulContent),
		Currency:          currencyCode,
		PriceHistory:      prices,
	}
}
