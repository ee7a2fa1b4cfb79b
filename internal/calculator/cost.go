// Package calculator holds the pure arithmetic over inventories and usage:
// aggregate cost and the monthly usage report.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/insumos/internal/models"
)

// TotalCost computes the value of the inventory.
// Based on: total = Σ quantity × unit_price over every supply.
func TotalCost(inv models.Inventory) decimal.Decimal {
	total := decimal.Zero
	for _, s := range inv {
		total = total.Add(s.Cost())
	}
	return total
}
