package workorder

import "regexp"

// Labels and sentinels of the work-order template
const (
	LabelClient    = "Cliente:"
	LabelIssueDate = "Emissão:"
	LabelFleet     = "Frota:"
	LabelPlate     = "Placa:"
	LabelOdometer  = "KM:"
	LabelDiscount  = "Total Desconto:"

	ItemTableHeader = "Referência"
	ItemsSentinel   = "Total Bruto:"

	remarksPrefix = "observações geral"
	emailPrefix   = "e-mail"
)

// Search windows, in lines
const (
	valueWindow         = 5
	discountWindow      = 7
	orderFallbackWindow = 4
)

var (
	reOrderNumber    = regexp.MustCompile(`\bN[ºo]\s*(\d{5,})`)
	reOrderLine      = regexp.MustCompile(`^\d{5,}$`)
	reClientCode     = regexp.MustCompile(`^[A-Z0-9]+$`)
	reEmail          = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+`)
	reMultiSpace     = regexp.MustCompile(` +`)
	reStateCode      = regexp.MustCompile(`/[A-Z]{2}\b`)
	rePhone          = regexp.MustCompile(`\(\d{2}\)`)
	reTaxID          = regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)
	reRegistration   = regexp.MustCompile(`^\d{10,15}$`)
	reDigit          = regexp.MustCompile(`\d`)
	reQuantity       = regexp.MustCompile(`^\d{1,3},\d{2}$`)
	reAmount         = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)
	reClassification = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)
	reReference      = regexp.MustCompile(`^[\d.]+$`)
	reProductCode    = regexp.MustCompile(`^\d{3,}$`)
)
