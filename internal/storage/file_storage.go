package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPathEscapesBase is returned when a target path resolves outside the base directory
var ErrPathEscapesBase = errors.New("path escapes base directory")

// UploadStore keeps uploaded source documents on the local filesystem
type UploadStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewUploadStore creates a new UploadStore rooted at baseDir
func NewUploadStore(baseDir string, logger *zap.Logger) *UploadStore {
	return &UploadStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save copies r into <base>/<uuid>/<name> and returns the stored path.
// The original file name is kept so the extraction reports it as the source.
func (s *UploadStore) Save(name string, r io.Reader) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid upload name %q", name)
	}

	fullPath := filepath.Join(s.baseDir, uuid.NewString(), name)
	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create upload folder",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", fullPath),
		zap.Int64("size", n))

	return fullPath, nil
}

// Remove deletes a stored upload and its folder
func (s *UploadStore) Remove(path string) error {
	if err := s.ValidatePath(path); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Dir(path))
}

// ValidatePath checks that the path is within baseDir
func (s *UploadStore) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, fullPath)
	}

	return nil
}
