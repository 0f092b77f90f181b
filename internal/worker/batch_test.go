package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garyjia/os-extractor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProcessor struct {
	processFunc func(ctx context.Context, pdfPath string) (*service.ProcessResult, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockProcessor) Process(ctx context.Context, pdfPath, outputPath string) (*service.ProcessResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, pdfPath)
	m.mu.Unlock()
	if m.processFunc != nil {
		return m.processFunc(ctx, pdfPath)
	}
	return &service.ProcessResult{OutputPath: pdfPath + ".xlsx"}, nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF"), 0644))
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf", "a.PDF", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))

	paths, err := ListPDFs(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, paths)

	_, err = ListPDFs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestBatchRunner_Run(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "os1.pdf", "os2.pdf", "os3.pdf")

	proc := &mockProcessor{}
	runner := NewBatchRunner(proc, 2, zap.NewNop())

	outcomes, status, err := runner.Run(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for i, name := range []string{"os1.pdf", "os2.pdf", "os3.pdf"} {
		assert.Equal(t, filepath.Join(dir, name), outcomes[i].Path)
		require.NoError(t, outcomes[i].Err)
		assert.Equal(t, outcomes[i].Path+".xlsx", outcomes[i].Result.OutputPath)
	}
	assert.Equal(t, BatchStatus{Total: 3, Processed: 3, Duration: status.Duration}, status)
	assert.Len(t, proc.calls, 3)
}

func TestBatchRunner_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("corrupt pdf")
	proc := &mockProcessor{processFunc: func(ctx context.Context, pdfPath string) (*service.ProcessResult, error) {
		if pdfPath == "bad.pdf" {
			return nil, boom
		}
		return &service.ProcessResult{OutputPath: "ok"}, nil
	}}
	runner := NewBatchRunner(proc, 3, nil)

	outcomes, status := runner.RunFiles(context.Background(), []string{"a.pdf", "bad.pdf", "c.pdf"})

	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, 1, status.Failed)
}

func TestBatchRunner_BoundsConcurrency(t *testing.T) {
	var active, peak int32
	proc := &mockProcessor{processFunc: func(ctx context.Context, pdfPath string) (*service.ProcessResult, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return &service.ProcessResult{}, nil
	}}
	runner := NewBatchRunner(proc, 2, zap.NewNop())

	paths := make([]string, 8)
	for i := range paths {
		paths[i] = filepath.Join("in", string(rune('a'+i))+".pdf")
	}
	_, status := runner.RunFiles(context.Background(), paths)

	assert.Equal(t, 8, status.Processed)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestBatchRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := &mockProcessor{}
	runner := NewBatchRunner(proc, 1, zap.NewNop())

	outcomes, status := runner.RunFiles(ctx, []string{"a.pdf", "b.pdf", "c.pdf"})

	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Equal(t, 3, status.Failed)
	assert.Empty(t, proc.calls)
}

func TestBatchRunner_Empty(t *testing.T) {
	runner := NewBatchRunner(&mockProcessor{}, 0, nil)

	outcomes, status := runner.RunFiles(context.Background(), nil)

	assert.Empty(t, outcomes)
	assert.Equal(t, 0, status.Total)
	assert.Equal(t, DefaultWorkers, runner.workers)
}
