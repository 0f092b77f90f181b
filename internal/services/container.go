package services

import (
	"fmt"
	"path/filepath"

	"github.com/garyjia/os-extractor/internal/config"
	"github.com/garyjia/os-extractor/internal/enrich"
	"github.com/garyjia/os-extractor/internal/lark"
	"github.com/garyjia/os-extractor/internal/notification"
	"github.com/garyjia/os-extractor/internal/pdftext"
	"github.com/garyjia/os-extractor/internal/report"
	"github.com/garyjia/os-extractor/internal/service"
	"github.com/garyjia/os-extractor/internal/storage"
	"go.uber.org/zap"
)

const uploadsSubdir = "uploads"

// Container holds the stateless service-layer components
type Container struct {
	Reader    pdftext.Reader
	Writer    *report.WorkbookWriter
	Folders   *storage.FolderManager
	Uploads   *storage.UploadStore
	Enricher  *enrich.Enricher
	Notifier  *notification.ExtractionNotifier
	Extractor *service.ExtractionService

	logger *zap.Logger
}

// ContainerOptions tunes how the container is wired
type ContainerOptions struct {
	// UseOutputDir lays workbooks out under output.dir instead of next to the input
	UseOutputDir bool
}

// NewContainer wires every service from cfg. Optional integrations are
// created only when their configuration is complete.
func NewContainer(cfg *config.Config, infra *Infrastructure, opts ContainerOptions, logger *zap.Logger) (*Container, error) {
	reader, err := pdftext.New(cfg.PDF.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	c := &Container{
		Reader:  reader,
		Writer:  report.NewWorkbookWriter(logger),
		Folders: storage.NewFolderManager(cfg.Output.Dir, logger),
		Uploads: storage.NewUploadStore(filepath.Join(cfg.Output.Dir, uploadsSubdir), logger),
		logger:  logger,
	}

	if cfg.OpenAI.Enabled() {
		c.Enricher = enrich.NewEnricher(cfg.OpenAI.APIKey, enrich.Config{
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Timeout:     cfg.OpenAI.Timeout,
		}, logger)
		logger.Info("AI enrichment enabled", zap.String("model", cfg.OpenAI.Model))
	}

	if cfg.Lark.Enabled() {
		client := lark.NewClient(lark.Config{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
		}, logger)
		c.Notifier = notification.NewExtractionNotifier(lark.NewMessageAPI(client, logger), cfg.Lark.ChatID, cfg.Lark.APITimeout, logger)
		logger.Info("Lark notifications enabled")
	}

	deps := service.Dependencies{
		Reader: c.Reader,
		Writer: c.Writer,
	}
	if opts.UseOutputDir {
		deps.Folders = c.Folders
	}
	// typed nils must not leak into the interfaces
	if c.Enricher != nil {
		deps.Enricher = c.Enricher
	}
	if c.Notifier != nil {
		deps.Notifier = c.Notifier
	}
	if infra != nil && infra.Extractions != nil {
		deps.Repo = infra.Extractions
	}

	c.Extractor, err = service.NewExtractionService(deps, logger)
	if err != nil {
		return nil, err
	}

	return c, nil
}
