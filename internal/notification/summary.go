package notification

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/shopspring/decimal"
)

const absent = "-"

// Summary builds the chat text for one processed work order
func Summary(rec *models.ExtractionRecord) string {
	res := &rec.Result

	var b strings.Builder
	fmt.Fprintf(&b, "OS %s processada\n", valueOr(res.OrderNumber))
	fmt.Fprintf(&b, "Arquivo: %s\n", filepath.Base(res.SourceFile))
	fmt.Fprintf(&b, "Cliente: %s\n", clientLabel(res.Client))
	if res.Vehicle.Plate != nil {
		fmt.Fprintf(&b, "Placa: %s\n", *res.Vehicle.Plate)
	}
	fmt.Fprintf(&b, "Itens: %d\n", len(res.Items))
	fmt.Fprintf(&b, "%s: %s\n", models.TotalGross, FormatBRL(res.Totals.Gross))
	fmt.Fprintf(&b, "%s: %s\n", models.TotalDiscount, FormatBRL(res.Totals.Discount))
	fmt.Fprintf(&b, "%s: %s", models.TotalNet, FormatBRL(res.Totals.Net))
	if rec.OutputPath != "" {
		fmt.Fprintf(&b, "\nPlanilha: %s", rec.OutputPath)
	}
	return b.String()
}

func clientLabel(c models.Client) string {
	switch {
	case c.Name != nil && c.Code != nil:
		return fmt.Sprintf("%s (%s)", *c.Name, *c.Code)
	case c.Name != nil:
		return *c.Name
	default:
		return valueOr(c.Code)
	}
}

func valueOr(s *string) string {
	if s == nil || *s == "" {
		return absent
	}
	return *s
}

// FormatBRL renders an amount as "R$ 1.234,56"
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return "R$ " + sign + grouped.String() + "," + frac
}
