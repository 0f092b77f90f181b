package pdftext

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PlainReader reads page text with a pure Go parser. It needs no cgo but
// handles fewer font encodings than MuPDF.
type PlainReader struct {
	logger *zap.Logger
}

// NewPlainReader creates a pure Go reader
func NewPlainReader(logger *zap.Logger) *PlainReader {
	return &PlainReader{logger: logger}
}

// PageTexts extracts the plain text of every page. Empty page objects yield
// an empty block so page positions are preserved.
func (r *PlainReader) PageTexts(ctx context.Context, path string) ([]string, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	r.logger.Debug("Reading PDF text", zap.String("path", path), zap.Int("total_pages", pageCount))

	pages := make([]string, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(n)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of page %d: %w", n, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}
