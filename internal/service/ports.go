package service

import (
	"context"

	"github.com/garyjia/os-extractor/internal/models"
)

// PageReader returns the text of every page of a PDF in order
type PageReader interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// WorkbookWriter renders a result as a spreadsheet file
type WorkbookWriter interface {
	Write(result *models.ExtractionResult, path string) error
}

// OutputResolver chooses where the workbook of a result goes
type OutputResolver interface {
	PrepareWorkbookPath(result *models.ExtractionResult) (string, error)
}

// Enricher fills header fields left absent by the locators
type Enricher interface {
	Enrich(ctx context.Context, result *models.ExtractionResult, fullText string) (int, error)
}

// ExtractionRepository persists processed records
type ExtractionRepository interface {
	Create(ctx context.Context, rec *models.ExtractionRecord) error
}

// Notifier announces processed records
type Notifier interface {
	NotifyExtraction(ctx context.Context, rec *models.ExtractionRecord) error
}
