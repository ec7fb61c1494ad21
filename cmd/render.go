package main

import (
	"strconv"

	"github.com/Rhymond/go-money"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
)

// The whole collection is appraised in a single currency.
const collectionCurrency = money.USD

// formatValue renders an appraisal value for display, e.g. "$12.50".
func formatValue(v float64) string {
	return money.NewFromFloat(v, collectionCurrency).Display()
}

// formatYearPtr renders a possibly-unknown year.
func formatYearPtr(year *int) string {
	if year == nil {
		return "unknown"
	}
	return strconv.Itoa(*year)
}

// shortID truncates a uuid for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// coinRow builds the list-table cells for one coin.
func coinRow(c model.Coin) []string {
	rare := ""
	if c.IsRare {
		rare = "rare"
	}
	return []string{
		shortID(c.ID),
		c.Name,
		c.Country,
		formatYearPtr(c.Year),
		formatValue(c.Value),
		rare,
	}
}
