package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/garyjia/os-extractor/internal/config"
	httpapi "github.com/garyjia/os-extractor/internal/interfaces/http"
	"github.com/garyjia/os-extractor/internal/services"
	"github.com/garyjia/os-extractor/pkg/utils"
)

const version = "1.0.0"

type argsT struct {
	Config string `arg:"-c,--config,env:CONFIG_PATH" help:"path to a YAML config file"`
}

func (argsT) Version() string {
	return "os-extractor server " + version
}

func main() {
	var args argsT
	arg.MustParse(&args)

	cfg, err := config.Load(args.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting work order extraction server",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("pdf_backend", cfg.PDF.Backend))

	infra, err := services.NewInfrastructure(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer infra.Shutdown()

	container, err := services.NewContainer(cfg, infra, services.ContainerOptions{UseOutputDir: true}, logger)
	if err != nil {
		return err
	}

	var records httpapi.RecordStore
	if infra.Extractions != nil {
		records = infra.Extractions
	}

	handlers := httpapi.NewHandlers(container.Extractor, container.Uploads, records, version, logger)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxUploadSize: cfg.Server.MaxUploadSize,
	}, handlers, logger)

	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("Server exited successfully")
	return nil
}
