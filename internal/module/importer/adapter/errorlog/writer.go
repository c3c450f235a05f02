package errorlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// Entry は失敗したレコードのログ行です
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Index     int       `json:"index"`
	JobID     string    `json:"job_id,omitempty"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// Writer は失敗レコードを日付ごとの JSONL ファイルに追記します
type Writer struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	enabled bool
	now     func() time.Time
}

// NewWriter は新しいWriterを作成します
// dir が空の場合は何も書き込まない Writer を返します
func NewWriter(dir string) (*Writer, error) {
	return newWriter(dir, time.Now)
}

func newWriter(dir string, now func() time.Time) (*Writer, error) {
	if dir == "" {
		return &Writer{enabled: false, now: now}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create error log directory: %w", err)
	}

	// 日付でファイルを分ける
	name := fmt.Sprintf("import_errors_%s.jsonl", now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log file: %w", err)
	}

	return &Writer{
		file:    file,
		path:    path,
		enabled: true,
		now:     now,
	}, nil
}

// Path は書き込み先ファイルのパスを返します（無効時は空）
func (w *Writer) Path() string {
	return w.path
}

// Write は失敗レコードを1行追記します
func (w *Writer) Write(runID string, rerr domain.RecordError) error {
	if !w.enabled {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	entry := Entry{
		Timestamp: w.now().UTC(),
		RunID:     runID,
		Index:     rerr.Index,
		JobID:     rerr.JobID,
		Kind:      string(rerr.Kind),
		Message:   rerr.Error(),
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal error entry: %w", err)
	}
	if _, err := w.file.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}

// Close はログファイルを閉じます
func (w *Writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
