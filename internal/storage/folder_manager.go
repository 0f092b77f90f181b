package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/garyjia/os-extractor/internal/models"
	"go.uber.org/zap"
)

const (
	workbookExt  = ".xlsx"
	fallbackName = "extraction"

	// maxNameAttempts bounds the -2, -3, ... suffixes tried for one workbook
	maxNameAttempts = 1000
)

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\-_]`)

// FolderManager lays out output workbooks under a base directory,
// one folder per work order
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a new FolderManager
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{
		baseDir: baseDir,
		logger:  logger,
	}
}

// BaseDir returns the output root
func (m *FolderManager) BaseDir() string {
	return m.baseDir
}

// DefaultOutputPath returns the input path with its extension replaced by .xlsx
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + workbookExt
}

// WorkbookPath returns <base>/<order number or file stem>/<stem>.xlsx.
// The folder is not created.
func (m *FolderManager) WorkbookPath(result *models.ExtractionResult) string {
	stem := m.SanitizeFolderName(fileStem(result.SourceFile))
	if stem == "" {
		stem = fallbackName
	}

	folder := stem
	if result.OrderNumber != nil {
		if order := m.SanitizeFolderName(*result.OrderNumber); order != "" {
			folder = order
		}
	}

	return filepath.Join(m.baseDir, folder, stem+workbookExt)
}

// PrepareWorkbookPath resolves WorkbookPath, creates its folder and reserves
// the file so no other extraction is written to the same path. When the name
// is taken a numeric suffix is added: <stem>-2.xlsx, <stem>-3.xlsx, ...
func (m *FolderManager) PrepareWorkbookPath(result *models.ExtractionResult) (string, error) {
	base := m.WorkbookPath(result)
	folder := filepath.Dir(base)

	if err := os.MkdirAll(folder, 0755); err != nil {
		m.logger.Error("Failed to create output folder",
			zap.String("source_file", result.SourceFile),
			zap.String("folder_path", folder),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	stem := strings.TrimSuffix(base, workbookExt)
	for n := 1; n <= maxNameAttempts; n++ {
		path := base
		if n > 1 {
			path = fmt.Sprintf("%s-%d%s", stem, n, workbookExt)
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to reserve workbook path: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to reserve workbook path: %w", err)
		}

		m.logger.Debug("Reserved output workbook",
			zap.String("source_file", result.SourceFile),
			zap.String("output_path", path))
		return path, nil
	}

	return "", fmt.Errorf("no free workbook name for %s after %d attempts", base, maxNameAttempts)
}

// SanitizeFolderName returns a filesystem-safe version of the name.
// Only letters (any script), digits, hyphens and underscores survive.
func (m *FolderManager) SanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeChars.ReplaceAllString(name, "")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
