package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/garyjia/os-extractor/internal/config"
	"github.com/garyjia/os-extractor/internal/services"
	"github.com/garyjia/os-extractor/internal/worker"
	"github.com/garyjia/os-extractor/pkg/utils"
)

type argsT struct {
	Input    string `arg:"-i,--input" help:"work order PDF" default:"frota_4100408.pdf"`
	Output   string `arg:"-o,--output" help:"output workbook; defaults to the input path with .xlsx"`
	Dir      string `arg:"-d,--dir" help:"process every PDF in this directory into output.dir"`
	Workers  int    `arg:"-w,--workers" help:"parallel documents in --dir mode; defaults to batch.workers"`
	Config   string `arg:"-c,--config,env:CONFIG_PATH" help:"path to a YAML config file"`
	LogLevel string `arg:"--log-level,env:LOG_LEVEL" default:"warn"`
	DB       bool   `arg:"--db" help:"also record extractions in database.path (creates the SQLite file)"`
}

func (argsT) Description() string {
	return "Extracts a work order (OS) PDF into a spreadsheet with OS, Itens and Totais sheets."
}

// applyArgs overrides configuration with command-line flags.
// Persistence is opt-in for the CLI.
func applyArgs(cfg *config.Config, args argsT) {
	cfg.Database.Enabled = args.DB
	if args.Workers > 0 {
		cfg.Batch.Workers = args.Workers
	}
}

func main() {
	var args argsT
	p := arg.MustParse(&args)

	if args.Dir != "" && args.Output != "" {
		p.Fail("--output cannot be combined with --dir")
	}

	cfg, err := config.Load(args.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyArgs(cfg, args)

	logger, err := utils.NewCLILogger(args.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, args, cfg, logger)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, args argsT, cfg *config.Config, logger *zap.Logger) int {
	if args.Dir == "" {
		if _, err := os.Stat(args.Input); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Arquivo PDF não encontrado: %s\n", args.Input)
			return 1
		}
	}

	infra, err := services.NewInfrastructure(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer infra.Shutdown()

	container, err := services.NewContainer(cfg, infra, services.ContainerOptions{UseOutputDir: args.Dir != ""}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	if args.Dir != "" {
		return runBatch(ctx, container, args.Dir, cfg.Batch.Workers, logger)
	}

	result, err := container.Extractor.Process(ctx, args.Input, args.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	out := result.OutputPath
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	fmt.Printf("Excel gerado com sucesso: %s\n", out)
	return 0
}

func runBatch(ctx context.Context, c *services.Container, dir string, workers int, logger *zap.Logger) int {
	runner := worker.NewBatchRunner(c.Extractor, workers, logger)

	outcomes, status, err := runner.Run(ctx, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "ERRO %s: %v\n", o.Path, o.Err)
			continue
		}
		fmt.Printf("%s -> %s\n", o.Path, o.Result.OutputPath)
	}
	fmt.Printf("%d processados, %d com erro\n", status.Processed, status.Failed)

	if status.Failed > 0 {
		return 1
	}
	return 0
}
