package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendText(ctx context.Context, chatID, text string) (string, error) {
	args := m.Called(ctx, chatID, text)
	return args.String(0), args.Error(1)
}

func strp(s string) *string { return &s }

func sampleRecord() *models.ExtractionRecord {
	return &models.ExtractionRecord{
		ID: "rec-1",
		Result: models.ExtractionResult{
			SourceFile:  "/tmp/in/frota_4100408.pdf",
			OrderNumber: strp("4100408"),
			Client:      models.Client{Code: strp("C123"), Name: strp("JOAO DA SILVA")},
			Vehicle:     models.Vehicle{Plate: strp("ABC1D23")},
			Items:       make([]models.LineItem, 3),
			Totals: models.NewTotals(
				decimal.RequireFromString("1234.5"),
				decimal.RequireFromString("34.50"),
			),
		},
		OutputPath: "output/4100408/frota_4100408.xlsx",
	}
}

func TestSummary(t *testing.T) {
	text := Summary(sampleRecord())

	assert.Contains(t, text, "OS 4100408 processada")
	assert.Contains(t, text, "Arquivo: frota_4100408.pdf")
	assert.Contains(t, text, "Cliente: JOAO DA SILVA (C123)")
	assert.Contains(t, text, "Placa: ABC1D23")
	assert.Contains(t, text, "Itens: 3")
	assert.Contains(t, text, "Bruto: R$ 1.234,50")
	assert.Contains(t, text, "Desconto: R$ 34,50")
	assert.Contains(t, text, "Líquido: R$ 1.200,00")
	assert.Contains(t, text, "Planilha: output/4100408/frota_4100408.xlsx")
}

func TestSummary_AbsentFields(t *testing.T) {
	rec := &models.ExtractionRecord{
		Result: models.ExtractionResult{
			SourceFile: "x.pdf",
			Totals:     models.NewTotals(decimal.Zero, decimal.Zero),
		},
	}

	text := Summary(rec)

	assert.Contains(t, text, "OS - processada")
	assert.Contains(t, text, "Cliente: -")
	assert.NotContains(t, text, "Placa:")
	assert.NotContains(t, text, "Planilha:")
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"5.5", "R$ 5,50"},
		{"999.99", "R$ 999,99"},
		{"1000", "R$ 1.000,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-40", "R$ -40,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestExtractionNotifier_NotifyExtraction(t *testing.T) {
	sender := new(mockSender)
	rec := sampleRecord()
	sender.On("SendText", mock.Anything, "oc_chat", Summary(rec)).Return("om_1", nil)

	n := NewExtractionNotifier(sender, "oc_chat", time.Second, zap.NewNop())

	require.NoError(t, n.NotifyExtraction(context.Background(), rec))
	sender.AssertExpectations(t)
}

func TestExtractionNotifier_SendFailure(t *testing.T) {
	sender := new(mockSender)
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("code=99991663"))

	n := NewExtractionNotifier(sender, "oc_chat", time.Second, zap.NewNop())

	err := n.NotifyExtraction(context.Background(), sampleRecord())
	assert.ErrorContains(t, err, "99991663")
}

func TestExtractionNotifier_MissingChat(t *testing.T) {
	sender := new(mockSender)
	n := NewExtractionNotifier(sender, "", 0, nil)

	assert.Error(t, n.NotifyExtraction(context.Background(), sampleRecord()))
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}
