// Package pdftext extracts plain text from PDF documents, one block per page.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileNotFound    = errors.New("PDF file not found")
	ErrNoPages         = errors.New("PDF has no pages")
	ErrUnknownBackend  = errors.New("unknown PDF backend")
)

// Backend names accepted by New
const (
	BackendFitz  = "fitz"
	BackendPlain = "plain"
)

// Reader produces the text of every page of a PDF in reading order
type Reader interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// New returns the reader for the named backend
func New(backend string, logger *zap.Logger) (Reader, error) {
	switch strings.ToLower(backend) {
	case BackendFitz, "":
		return NewFitzReader(logger), nil
	case BackendPlain:
		return NewPlainReader(logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// checkFile verifies the path exists and has a .pdf extension
func checkFile(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat PDF: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFile, path)
	}
	return nil
}
