package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/garyjia/os-extractor/internal/storage"
	"github.com/garyjia/os-extractor/internal/workorder"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrMissingDependency is returned when a required collaborator is nil
var ErrMissingDependency = errors.New("missing required dependency")

// Dependencies wires the service. Reader and Writer are required; the rest may be nil.
type Dependencies struct {
	Reader   PageReader
	Writer   WorkbookWriter
	Folders  OutputResolver
	Enricher Enricher
	Repo     ExtractionRepository
	Notifier Notifier
}

// ProcessResult is the outcome of processing one document
type ProcessResult struct {
	Record     *models.ExtractionRecord
	OutputPath string
}

// ExtractionService turns a work-order PDF into a workbook and a stored record
type ExtractionService struct {
	deps      Dependencies
	extractor *workorder.Extractor
	logger    *zap.Logger
}

// NewExtractionService creates a new ExtractionService
func NewExtractionService(deps Dependencies, logger *zap.Logger) (*ExtractionService, error) {
	if deps.Reader == nil {
		return nil, fmt.Errorf("%w: page reader", ErrMissingDependency)
	}
	if deps.Writer == nil {
		return nil, fmt.Errorf("%w: workbook writer", ErrMissingDependency)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ExtractionService{
		deps:      deps,
		extractor: workorder.NewExtractor(logger),
		logger:    logger,
	}, nil
}

// Process reads pdfPath, extracts its record and writes the workbook.
// An empty outputPath is resolved through Folders, or next to the input when
// Folders is nil. Enrichment and notification failures are logged only.
func (s *ExtractionService) Process(ctx context.Context, pdfPath, outputPath string) (*ProcessResult, error) {
	pages, err := s.deps.Reader.PageTexts(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pdfPath, err)
	}

	doc := workorder.NewDocument(pages)
	result := s.extractor.ExtractDocument(filepath.Base(pdfPath), doc)

	if s.deps.Enricher != nil {
		if _, err := s.deps.Enricher.Enrich(ctx, result, doc.FullText()); err != nil {
			s.logger.Warn("Enrichment failed, keeping located fields",
				zap.String("source_file", result.SourceFile),
				zap.Error(err))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath, err = s.resolveOutput(pdfPath, result)
		if err != nil {
			return nil, err
		}
	}

	if err := s.deps.Writer.Write(result, outputPath); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	rec := &models.ExtractionRecord{
		ID:         uuid.NewString(),
		Result:     *result,
		OutputPath: outputPath,
		CreatedAt:  time.Now().UTC(),
	}

	if s.deps.Repo != nil {
		if err := s.deps.Repo.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to store extraction: %w", err)
		}
	}

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.NotifyExtraction(ctx, rec); err != nil {
			s.logger.Warn("Notification failed",
				zap.String("extraction_id", rec.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Work order processed",
		zap.String("extraction_id", rec.ID),
		zap.String("source_file", result.SourceFile),
		zap.Stringp("order_number", result.OrderNumber),
		zap.Int("items", len(result.Items)),
		zap.String("output_path", outputPath))

	return &ProcessResult{Record: rec, OutputPath: outputPath}, nil
}

func (s *ExtractionService) resolveOutput(pdfPath string, result *models.ExtractionResult) (string, error) {
	if s.deps.Folders == nil {
		return storage.DefaultOutputPath(pdfPath), nil
	}
	path, err := s.deps.Folders.PrepareWorkbookPath(result)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return path, nil
}
