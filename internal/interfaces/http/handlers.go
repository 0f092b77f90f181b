package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/garyjia/os-extractor/internal/pdftext"
	"github.com/garyjia/os-extractor/internal/repository"
	"github.com/garyjia/os-extractor/internal/service"
)

const (
	formatXLSX      = "xlsx"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultLimit    = 20
	maxLimit        = 100
)

// Processor runs one extraction
type Processor interface {
	Process(ctx context.Context, pdfPath, outputPath string) (*service.ProcessResult, error)
}

// UploadStore keeps uploaded files while they are processed
type UploadStore interface {
	Save(name string, r io.Reader) (string, error)
	Remove(path string) error
}

// RecordStore reads stored extractions
type RecordStore interface {
	GetByID(ctx context.Context, id string) (*models.ExtractionRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.ExtractionRecord, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	processor Processor
	uploads   UploadStore
	records   RecordStore
	version   string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance. records may be nil when persistence is disabled.
func NewHandlers(processor Processor, uploads UploadStore, records RecordStore, version string, logger *zap.Logger) *Handlers {
	return &Handlers{
		processor: processor,
		uploads:   uploads,
		records:   records,
		version:   version,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Persistence bool   `json:"persistence"`
}

// ListRequest represents query parameters for listing extractions
type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:      "healthy",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Version:     h.version,
			Persistence: h.records != nil,
		},
	})
}

// CreateExtraction handles POST /api/v1/extractions
func (h *Handlers) CreateExtraction(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}

	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		fail(c, http.StatusUnsupportedMediaType, "only PDF files are accepted")
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		fail(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	path, err := h.uploads.Save(fh.Filename, src)
	src.Close()
	if err != nil {
		h.logger.Error("Failed to store upload", zap.String("file", fh.Filename), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() {
		if err := h.uploads.Remove(path); err != nil {
			h.logger.Warn("Failed to remove upload", zap.String("path", path), zap.Error(err))
		}
	}()

	result, err := h.processor.Process(c.Request.Context(), path, "")
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, pdftext.ErrNoPages) || errors.Is(err, pdftext.ErrUnsupportedFile) {
			fail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("Extraction failed", zap.String("file", fh.Filename), zap.Error(err))
		fail(c, http.StatusInternalServerError, "extraction failed")
		return
	}

	if c.Query("format") == formatXLSX {
		h.sendWorkbook(c, result.OutputPath)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result.Record})
}

// ListExtractions handles GET /api/v1/extractions
func (h *Handlers) ListExtractions(c *gin.Context) {
	if h.records == nil {
		fail(c, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if req.Limit <= 0 || req.Limit > maxLimit {
		req.Limit = defaultLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	records, err := h.records.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list extractions", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to retrieve extractions")
		return
	}
	if records == nil {
		records = []*models.ExtractionRecord{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// GetExtraction handles GET /api/v1/extractions/:id
func (h *Handlers) GetExtraction(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// DownloadWorkbook handles GET /api/v1/extractions/:id/workbook
func (h *Handlers) DownloadWorkbook(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	h.sendWorkbook(c, rec.OutputPath)
}

func (h *Handlers) lookup(c *gin.Context) (*models.ExtractionRecord, bool) {
	if h.records == nil {
		fail(c, http.StatusServiceUnavailable, "persistence is disabled")
		return nil, false
	}

	id := c.Param("id")
	rec, err := h.records.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrExtractionNotFound) {
		fail(c, http.StatusNotFound, "extraction not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to get extraction", zap.String("id", id), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to retrieve extraction")
		return nil, false
	}
	return rec, true
}

func (h *Handlers) sendWorkbook(c *gin.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		h.logger.Warn("Workbook missing", zap.String("path", path), zap.Error(err))
		fail(c, http.StatusNotFound, "workbook not found")
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.FileAttachment(path, filepath.Base(path))
}
