// Package report renders extraction results as xlsx workbooks.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names
const (
	SheetHeader = "OS"
	SheetItems  = "Itens"
	SheetTotals = "Totais"

	itemsTable      = "TabelaItens"
	itemsTableStyle = "TableStyleMedium9"

	quantityFormat = "0.00"
	currencyFormat = "R$ #,##0.00"
)

// WorkbookWriter writes the OS, Itens and Totais sheets of one work order
type WorkbookWriter struct {
	logger *zap.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *zap.Logger) *WorkbookWriter {
	return &WorkbookWriter{logger: logger}
}

// Write builds the workbook and saves it to path, creating parent folders
func (w *WorkbookWriter) Write(result *models.ExtractionResult, path string) error {
	f, err := w.Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	w.logger.Info("Workbook written",
		zap.String("output_path", path),
		zap.Int("item_count", len(result.Items)))
	return nil
}

// WriteTo builds the workbook and streams it to out
func (w *WorkbookWriter) WriteTo(result *models.ExtractionResult, out io.Writer) error {
	f, err := w.Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// Build creates the in-memory workbook. Callers must Close it.
func (w *WorkbookWriter) Build(result *models.ExtractionResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetItems, SheetTotals} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, *models.ExtractionResult) error{
		w.fillHeader,
		w.fillItems,
		w.fillTotals,
	}
	for _, step := range steps {
		if err := step(f, result); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (w *WorkbookWriter) fillHeader(f *excelize.File, result *models.ExtractionResult) error {
	if err := writeRow(f, SheetHeader, 1, toCells(models.HeaderColumns)); err != nil {
		return err
	}
	if err := writeRow(f, SheetHeader, 2, toCells(result.HeaderRow())); err != nil {
		return err
	}
	return autosize(f, SheetHeader, 60)
}

func (w *WorkbookWriter) fillItems(f *excelize.File, result *models.ExtractionResult) error {
	if err := writeRow(f, SheetItems, 1, toCells(models.ItemColumns)); err != nil {
		return err
	}

	for i, it := range result.Items {
		row := []interface{}{
			it.ProductCode,
			it.Description,
			it.Classification,
			it.Reference,
			cellNumber(it.Quantity),
			cellNumber(it.UnitPrice),
			cellNumber(it.Total),
		}
		if err := writeRow(f, SheetItems, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetItems, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if len(result.Items) > 0 {
		last := len(result.Items) + 1
		if err := w.applyFormat(f, SheetItems, "E2", fmt.Sprintf("E%d", last), quantityFormat); err != nil {
			return err
		}
		if err := w.applyFormat(f, SheetItems, "F2", fmt.Sprintf("G%d", last), currencyFormat); err != nil {
			return err
		}

		lastCol, _ := excelize.ColumnNumberToName(len(models.ItemColumns))
		showStripes := true
		if err := f.AddTable(SheetItems, &excelize.Table{
			Range:          fmt.Sprintf("A1:%s%d", lastCol, last),
			Name:           itemsTable,
			StyleName:      itemsTableStyle,
			ShowRowStripes: &showStripes,
		}); err != nil {
			return fmt.Errorf("failed to add items table: %w", err)
		}
	}

	return autosize(f, SheetItems, 50)
}

func (w *WorkbookWriter) fillTotals(f *excelize.File, result *models.ExtractionResult) error {
	rows := [][]interface{}{
		toCells(models.TotalColumns),
		{models.TotalGross, cellNumber(result.Totals.Gross)},
		{models.TotalDiscount, cellNumber(result.Totals.Discount)},
		{models.TotalNet, cellNumber(result.Totals.Net)},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetTotals, i+1, row); err != nil {
			return err
		}
	}

	if err := w.applyFormat(f, SheetTotals, "B2", "B4", currencyFormat); err != nil {
		return err
	}
	return autosize(f, SheetTotals, 30)
}

func (w *WorkbookWriter) applyFormat(f *excelize.File, sheet, from, to, format string) error {
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		w.logger.Warn("Failed to set cell style",
			zap.String("sheet", sheet),
			zap.String("range", from+":"+to),
			zap.Error(err))
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// autosize sets each column width to its longest value plus padding, capped at maxWidth
func autosize(f *excelize.File, sheet string, maxWidth int) error {
	cols, err := f.GetCols(sheet)
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", sheet, err)
	}
	for i, col := range cols {
		longest := 0
		for _, v := range col {
			longest = max(longest, utf8.RuneCountInString(v))
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(min(longest+2, maxWidth))); err != nil {
			return err
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// cellNumber is the only place where exact amounts become floats
func cellNumber(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
