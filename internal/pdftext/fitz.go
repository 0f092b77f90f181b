package pdftext

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// FitzReader reads page text through MuPDF
type FitzReader struct {
	logger *zap.Logger
}

// NewFitzReader creates a MuPDF backed reader
func NewFitzReader(logger *zap.Logger) *FitzReader {
	return &FitzReader{logger: logger}
}

// PageTexts opens the document, extracts the text of every page and closes it
func (r *FitzReader) PageTexts(ctx context.Context, path string) ([]string, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	r.logger.Debug("Reading PDF text", zap.String("path", path), zap.Int("total_pages", pageCount))

	pages := make([]string, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of page %d: %w", n+1, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}
