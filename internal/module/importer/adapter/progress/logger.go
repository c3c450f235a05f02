package progress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// Logger は同期の進捗（成功率・残り時間の見込み）を slog に出力します
type Logger struct {
	mu          sync.Mutex
	log         *slog.Logger
	interval    time.Duration
	lastLogTime time.Time
	detailed    bool
	now         func() time.Time
}

// NewLogger は新しいLoggerを作成します
// interval より短い間隔のバッチ進捗は、最終バッチを除いて出力しません
func NewLogger(log *slog.Logger, interval time.Duration, detailed bool) *Logger {
	return &Logger{
		log:      log,
		interval: interval,
		detailed: detailed,
		now:      time.Now,
	}
}

// OnBatch はバッチ進捗を出力します
func (l *Logger) OnBatch(p domain.BatchProgress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.lastLogTime.IsZero() && now.Sub(l.lastLogTime) < l.interval && p.Batch != p.Batches {
		// インターバル内かつ未完了の場合はスキップ
		return
	}
	l.lastLogTime = now

	l.log.Info("Sync progress",
		"runID", p.RunID,
		"progress", p.String(),
		"eta", EstimateRemaining(p).Round(time.Second),
	)

	if l.detailed {
		l.log.Info("Sync progress details",
			"runID", p.RunID,
			"success", p.Processed,
			"failed", p.Errored,
			"successRate", SuccessRate(p.Processed, p.Attempted),
		)
	}
}

// LogFinal は実行全体の結果とエラー種別ごとの件数を出力します
func (l *Logger) LogFinal(s *domain.RunSummary) {
	l.log.Info("Sync summary",
		"runID", s.RunID,
		"total", s.Total,
		"processed", s.Processed,
		"inserted", s.Inserted,
		"updated", s.Updated,
		"errored", s.Errored,
		"truncated", s.Truncated,
		"successRate", SuccessRate(s.Processed, s.Attempted),
		"duration", s.Duration(),
		"aborted", s.Aborted,
	)

	for kind, count := range s.ErrorsByKind() {
		l.log.Warn("Sync failures", "runID", s.RunID, "kind", kind, "count", count)
	}
}

// EstimateRemaining は処理済みレコードの平均処理時間から残り時間を見積もります
func EstimateRemaining(p domain.BatchProgress) time.Duration {
	if p.Attempted == 0 || p.Attempted >= p.Total {
		return 0
	}
	avg := p.ElapsedTime / time.Duration(p.Attempted)
	return avg * time.Duration(p.Total-p.Attempted)
}

// SuccessRate は成功率（%）を返します
func SuccessRate(succeeded, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(succeeded) / float64(attempted) * 100
}
