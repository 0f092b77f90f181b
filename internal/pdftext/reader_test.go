package pdftext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		backend string
		want    interface{}
	}{
		{"", &FitzReader{}},
		{"fitz", &FitzReader{}},
		{"FITZ", &FitzReader{}},
		{"plain", &PlainReader{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			r, err := New(tt.backend, logger)
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New("ocr", logger)
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}

func TestReaders_RejectInvalidInput(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "ordem.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not a pdf"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0755))

	readers := map[string]Reader{
		"fitz":  NewFitzReader(zap.NewNop()),
		"plain": NewPlainReader(zap.NewNop()),
	}

	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			_, err := r.PageTexts(context.Background(), txt)
			assert.ErrorIs(t, err, ErrUnsupportedFile)

			_, err = r.PageTexts(context.Background(), filepath.Join(dir, "missing.pdf"))
			assert.ErrorIs(t, err, ErrFileNotFound)

			_, err = r.PageTexts(context.Background(), filepath.Join(dir, "folder.pdf"))
			assert.ErrorIs(t, err, ErrUnsupportedFile)
		})
	}
}

func TestReaders_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	_, err := NewPlainReader(zap.NewNop()).PageTexts(context.Background(), path)
	assert.Error(t, err)
}
