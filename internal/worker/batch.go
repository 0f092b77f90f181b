package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/os-extractor/internal/service"
	"go.uber.org/zap"
)

// DefaultWorkers is used when a non-positive worker count is configured
const DefaultWorkers = 4

// Processor handles one document. *service.ExtractionService implements it.
type Processor interface {
	Process(ctx context.Context, pdfPath, outputPath string) (*service.ProcessResult, error)
}

// Outcome is the result of one document of a batch
type Outcome struct {
	Path   string
	Result *service.ProcessResult
	Err    error
}

// BatchStatus summarizes a finished batch
type BatchStatus struct {
	Total     int
	Processed int
	Failed    int
	Duration  time.Duration
}

// BatchRunner processes many work orders with a bounded pool of goroutines
type BatchRunner struct {
	processor Processor
	workers   int
	logger    *zap.Logger
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(processor Processor, workers int, logger *zap.Logger) *BatchRunner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{
		processor: processor,
		workers:   workers,
		logger:    logger,
	}
}

// Run processes every PDF directly inside dir
func (b *BatchRunner) Run(ctx context.Context, dir string) ([]Outcome, BatchStatus, error) {
	paths, err := ListPDFs(dir)
	if err != nil {
		return nil, BatchStatus{}, err
	}
	outcomes, status := b.RunFiles(ctx, paths)
	return outcomes, status, nil
}

// RunFiles processes paths concurrently. Outcomes keep the input order.
// A failing document does not stop the others; once ctx is done no new
// document is started and the remaining ones report ctx.Err().
func (b *BatchRunner) RunFiles(ctx context.Context, paths []string) ([]Outcome, BatchStatus) {
	start := time.Now()
	outcomes := make([]Outcome, len(paths))
	for i, p := range paths {
		outcomes[i].Path = p
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := b.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := b.processor.Process(ctx, paths[i], "")
				outcomes[i].Result = res
				outcomes[i].Err = err
				if err != nil {
					b.logger.Warn("Failed to process document",
						zap.String("path", paths[i]),
						zap.Error(err))
				}
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(paths) && ctx.Err() == nil; next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(paths); i++ {
		outcomes[i].Err = ctx.Err()
	}

	status := BatchStatus{Total: len(paths), Duration: time.Since(start)}
	for _, o := range outcomes {
		if o.Err != nil {
			status.Failed++
		} else {
			status.Processed++
		}
	}

	b.logger.Info("Batch finished",
		zap.Int("total", status.Total),
		zap.Int("processed", status.Processed),
		zap.Int("failed", status.Failed),
		zap.Int("workers", workers),
		zap.Duration("duration", status.Duration))

	return outcomes, status
}

// ListPDFs returns the .pdf files (any case) directly inside dir, sorted by name
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
