package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

const (
	// DefaultBatchSize はバッチサイズの既定値
	DefaultBatchSize = 10
	// MaxBatchSize はバッチサイズの上限
	MaxBatchSize = 100
	// DefaultBatchPause はバッチ間の待機時間の既定値
	DefaultBatchPause = 100 * time.Millisecond
)

// SyncConfig は同期実行の設定です
type SyncConfig struct {
	BatchSize     int
	BatchPause    time.Duration
	LinkPolicy    domain.LinkPolicy
	SkillPairMode domain.SkillPairMode
	MaxAttempts   int
	RetryDelay    time.Duration

	// OnStart は実行開始時に呼ばれます（オプション）
	OnStart func(runID string, total, batches int)
	// OnRecord はレコード処理ごとに呼ばれます（オプション）
	OnRecord func(result domain.RecordResult)
	// OnBatch はバッチ完了ごとに呼ばれます（オプション）
	OnBatch func(progress domain.BatchProgress)
}

// DefaultSyncConfig は既定の設定を返します
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		BatchSize:     DefaultBatchSize,
		BatchPause:    DefaultBatchPause,
		LinkPolicy:    domain.LinkPolicyReplace,
		SkillPairMode: domain.SkillPairModeTruncate,
		MaxAttempts:   1,
		RetryDelay:    2 * time.Second,
	}
}

// Validate は設定値を検証します
func (c SyncConfig) Validate() error {
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize)
	}
	if c.BatchPause < 0 {
		return fmt.Errorf("batch pause must not be negative")
	}
	if !c.LinkPolicy.IsValid() {
		return fmt.Errorf("unknown link policy: %q", c.LinkPolicy)
	}
	if !c.SkillPairMode.IsValid() {
		return fmt.Errorf("unknown skill pair mode: %q", c.SkillPairMode)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// SyncService は入力レコード列をバッチに分割して同期します
//
// レコードもバッチも入力順に逐次処理します。1レコードの失敗はバッチを中断しません。
// コンテキストのキャンセルはバッチ間でのみ確認し、実行中のバッチは最後まで処理します。
type SyncService struct {
	pipeline *RecordPipeline
	config   SyncConfig
	log      *slog.Logger
	now      func() time.Time
}

// NewSyncService は新しいSyncServiceを作成します
func NewSyncService(repos domain.Repositories, config SyncConfig, log *slog.Logger) (*SyncService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync config: %w", err)
	}

	pipeline := NewRecordPipeline(repos, config.LinkPolicy, PipelineConfig{
		SkillPairMode: config.SkillPairMode,
		MaxAttempts:   config.MaxAttempts,
		RetryDelay:    config.RetryDelay,
	}, log)

	return &SyncService{
		pipeline: pipeline,
		config:   config,
		log:      log,
		now:      time.Now,
	}, nil
}

// Run は全レコードを同期し、集計結果を返します
// キャンセルされた場合も、それまでの集計結果とエラーを返します
func (s *SyncService) Run(ctx context.Context, records []domain.RawRecord) (*domain.RunSummary, error) {
	startedAt := s.now()
	summary := &domain.RunSummary{
		RunID:     uuid.NewString(),
		Total:     len(records),
		Batches:   batchCount(len(records), s.config.BatchSize),
		StartedAt: startedAt,
	}
	// 実行内の全レコードに同じ同期時刻を記録する
	syncedAt := startedAt.UTC()

	s.log.Info("Sync started",
		"runID", summary.RunID,
		"records", summary.Total,
		"batches", summary.Batches,
		"batchSize", s.config.BatchSize,
		"linkPolicy", s.config.LinkPolicy,
	)

	if s.config.OnStart != nil {
		s.config.OnStart(summary.RunID, summary.Total, summary.Batches)
	}

	var limiter *rate.Limiter
	if s.config.BatchPause > 0 {
		limiter = rate.NewLimiter(rate.Every(s.config.BatchPause), 1)
	}

	// バッチ内のストア操作はキャンセルの影響を受けない
	storeCtx := context.WithoutCancel(ctx)

	var runErr error
	for batch := 0; batch < summary.Batches; batch++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				runErr = err
				break
			}
		}

		start := batch * s.config.BatchSize
		end := min(start+s.config.BatchSize, len(records))

		for i := start; i < end; i++ {
			result := s.pipeline.Process(storeCtx, i+1, records[i], syncedAt)
			result.RunID = summary.RunID
			summary.Record(result)

			if result.Err != nil {
				s.log.Warn("Record failed",
					"runID", summary.RunID,
					"index", result.Index,
					"jobID", result.JobID,
					"kind", domain.ClassifyError(result.Err),
					"error", result.Err,
				)
			} else {
				s.log.Debug("Record synced",
					"index", result.Index,
					"jobID", result.JobID,
					"action", result.Action,
					"attempts", result.Attempts,
				)
			}

			if s.config.OnRecord != nil {
				s.config.OnRecord(result)
			}
		}

		progress := domain.BatchProgress{
			RunID:       summary.RunID,
			Batch:       batch + 1,
			Batches:     summary.Batches,
			Size:        end - start,
			Total:       summary.Total,
			Attempted:   summary.Attempted,
			Processed:   summary.Processed,
			Inserted:    summary.Inserted,
			Updated:     summary.Updated,
			Errored:     summary.Errored,
			ElapsedTime: s.now().Sub(startedAt),
		}
		s.log.Info("Batch completed", "runID", summary.RunID, "progress", progress.String())
		if s.config.OnBatch != nil {
			s.config.OnBatch(progress)
		}
	}

	summary.FinishedAt = s.now()

	if runErr != nil {
		summary.Aborted = true
		s.log.Warn("Sync aborted",
			"runID", summary.RunID,
			"attempted", summary.Attempted,
			"total", summary.Total,
			"error", runErr,
		)
		return summary, fmt.Errorf("sync aborted after %d of %d records: %w", summary.Attempted, summary.Total, runErr)
	}

	s.log.Info("Sync completed",
		"runID", summary.RunID,
		"total", summary.Total,
		"processed", summary.Processed,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"errored", summary.Errored,
		"duration", summary.Duration(),
	)
	return summary, nil
}

func batchCount(total, size int) int {
	if total == 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
