package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_AcceptsStandardSpec(t *testing.T) {
	c := newScheduler(newTestLogger())

	_, err := c.AddFunc("0 3 * * *", func() {})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = c.AddFunc("not a spec", func() {})
	assert.Error(t, err)
}

func TestCronSpecValidation(t *testing.T) {
	_, err := cron.ParseStandard("*/15 * * * *")
	assert.NoError(t, err)

	_, err = cron.ParseStandard("0 3 * *")
	assert.Error(t, err)
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := cronLogger{log: log}

	logger.Info("skip", "entry", 1)
	logger.Error(errors.New("panic"), "job failed", "entry", 2)

	out := buf.String()
	assert.Contains(t, out, `msg="cron: skip" entry=1`)
	assert.Contains(t, out, `msg="cron: job failed" entry=2 error=panic`)
}

// lockedBuffer はジョブのゴルーチンと並行して読めるログ出力先
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(b.buf.String(), s)
}

// blockingImport は release が閉じられるまで終わらないインポートを模したジョブ
type blockingImport struct {
	running       atomic.Int32
	maxConcurrent atomic.Int32
	runs          atomic.Int32
	started       chan struct{}
	release       chan struct{}
}

func newBlockingImport() *blockingImport {
	return &blockingImport{
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
}

func (j *blockingImport) Run() {
	n := j.running.Add(1)
	defer j.running.Add(-1)
	for {
		cur := j.maxConcurrent.Load()
		if n <= cur || j.maxConcurrent.CompareAndSwap(cur, n) {
			break
		}
	}
	j.runs.Add(1)
	j.started <- struct{}{}
	<-j.release
}

func newDebugLogger(w *lockedBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestScheduledImport_RunNowDoesNotOverlap(t *testing.T) {
	// Setup
	var logs lockedBuffer
	job := newBlockingImport()
	s, err := newScheduledImport(newDebugLogger(&logs), "0 3 * * *", job.Run)
	require.NoError(t, err)
	s.Start()

	// Execute
	s.RunNow()
	<-job.started
	s.RunNow()
	require.Eventually(t, func() bool { return logs.Contains(`msg="cron: skip"`) }, 2*time.Second, 10*time.Millisecond)
	close(job.release)
	s.Stop()

	// Assert
	assert.Equal(t, int32(1), job.runs.Load())
	assert.Equal(t, int32(1), job.maxConcurrent.Load())
}

func TestScheduledImport_CronRunSkippedWhileRunNowActive(t *testing.T) {
	// Setup
	var logs lockedBuffer
	job := newBlockingImport()
	s, err := newScheduledImport(newDebugLogger(&logs), "@every 1s", job.Run)
	require.NoError(t, err)
	s.Start()

	// Execute
	s.RunNow()
	<-job.started
	require.Eventually(t, func() bool { return logs.Contains(`msg="cron: skip"`) }, 3*time.Second, 20*time.Millisecond)
	close(job.release)
	s.Stop()

	// Assert
	assert.Equal(t, int32(1), job.maxConcurrent.Load())
}

func TestScheduledImport_StopWaitsForRunNow(t *testing.T) {
	// Setup
	job := newBlockingImport()
	s, err := newScheduledImport(newTestLogger(), "0 3 * * *", job.Run)
	require.NoError(t, err)
	s.Start()
	s.RunNow()
	<-job.started

	// Execute
	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	// Assert
	select {
	case <-stopped:
		t.Fatal("Stop returned while the import was still running")
	case <-time.After(100 * time.Millisecond):
	}
	close(job.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the import finished")
	}
	assert.Equal(t, int32(0), job.running.Load())
}
