package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one billed product or service line of a work order
type LineItem struct {
	Quantity       decimal.Decimal `json:"quantity"`       // Qtd
	UnitPrice      decimal.Decimal `json:"unit_price"`     // Unitário
	Total          decimal.Decimal `json:"total"`          // Total
	Description    string          `json:"description"`    // Descrição
	Classification string          `json:"classification"` // NCM
	Reference      string          `json:"reference"`      // Referência
	ProductCode    string          `json:"product_code"`   // Produto
}

// Client holds the customer block of a work order. Every field is optional.
type Client struct {
	Code           *string `json:"code,omitempty"`            // Cliente Código
	Name           *string `json:"name,omitempty"`            // Cliente Nome
	Email          *string `json:"email,omitempty"`           // Cliente E-mail
	TaxID          *string `json:"tax_id,omitempty"`          // CNPJ
	RegistrationID *string `json:"registration_id,omitempty"` // RG/IE
	Address        *string `json:"address,omitempty"`         // Endereço
	Phones         *string `json:"phones,omitempty"`          // Telefones
}

// Vehicle holds the vehicle block of a work order
type Vehicle struct {
	Fleet    *string `json:"fleet,omitempty"`    // Frota
	Plate    *string `json:"plate,omitempty"`    // Placa
	Odometer *string `json:"odometer,omitempty"` // KM
}

// Totals holds the monetary summary. Net is always Gross minus Discount.
type Totals struct {
	Gross    decimal.Decimal `json:"gross"`    // Bruto
	Discount decimal.Decimal `json:"discount"` // Desconto
	Net      decimal.Decimal `json:"net"`      // Líquido
}

// NewTotals builds Totals deriving Net from gross and discount
func NewTotals(gross, discount decimal.Decimal) Totals {
	return Totals{
		Gross:    gross,
		Discount: discount,
		Net:      gross.Sub(discount),
	}
}

// ExtractionResult is the structured record extracted from one work-order document
type ExtractionResult struct {
	SourceFile  string     `json:"source_file"`
	OrderNumber *string    `json:"order_number,omitempty"` // Nº OS
	IssueDate   *string    `json:"issue_date,omitempty"`   // Emissão
	Client      Client     `json:"client"`
	Vehicle     Vehicle    `json:"vehicle"`
	Remarks     *string    `json:"remarks,omitempty"` // Observações
	Items       []LineItem `json:"items"`
	Totals      Totals     `json:"totals"`
}

// ExtractionRecord is a persisted extraction with its output workbook
type ExtractionRecord struct {
	ID         string           `json:"id"`
	Result     ExtractionResult `json:"result"`
	OutputPath string           `json:"output_path"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Spreadsheet column headers
var (
	HeaderColumns = []string{
		"Nº OS", "Emissão", "Cliente Código", "Cliente Nome", "Cliente E-mail",
		"CNPJ", "RG/IE", "Endereço", "Telefones", "Frota", "Placa", "KM", "Observações",
	}
	ItemColumns  = []string{"Produto", "Descrição", "NCM", "Referência", "Qtd", "Unitário", "Total"}
	TotalColumns = []string{"Tipo", "Valor"}
)

// Totals row labels
const (
	TotalGross    = "Bruto"
	TotalDiscount = "Desconto"
	TotalNet      = "Líquido"
)

// HeaderRow flattens the header fields in HeaderColumns order. Absent values are empty strings.
func (r *ExtractionResult) HeaderRow() []string {
	return []string{
		deref(r.OrderNumber),
		deref(r.IssueDate),
		deref(r.Client.Code),
		deref(r.Client.Name),
		deref(r.Client.Email),
		deref(r.Client.TaxID),
		deref(r.Client.RegistrationID),
		deref(r.Client.Address),
		deref(r.Client.Phones),
		deref(r.Vehicle.Fleet),
		deref(r.Vehicle.Plate),
		deref(r.Vehicle.Odometer),
		deref(r.Remarks),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
