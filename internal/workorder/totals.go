package workorder

import (
	"github.com/garyjia/os-extractor/internal/models"
	"github.com/shopspring/decimal"
)

// LocateDiscount reads the first amount within seven lines after
// "Total Desconto:". A missing label or amount means no discount.
func LocateDiscount(d *Document) decimal.Decimal {
	v, ok := d.scanAfter(hasPrefix(LabelDiscount), discountWindow, reAmount.MatchString)
	if !ok {
		return decimal.Zero
	}
	return ParseDecimal(v)
}

// ReconcileTotals sums item totals into gross and derives net from discount
func ReconcileTotals(items []models.LineItem, discount decimal.Decimal) models.Totals {
	gross := decimal.Zero
	for _, it := range items {
		gross = gross.Add(it.Total)
	}
	return models.NewTotals(gross, discount)
}
