package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// PipelineConfig はレコード単位の処理設定です
type PipelineConfig struct {
	SkillPairMode domain.SkillPairMode
	// MaxAttempts はレコードごとの最大実行回数（1 = リトライなし）
	MaxAttempts int
	// RetryDelay はリトライ時の初回待機時間
	RetryDelay time.Duration
}

// RecordPipeline は1レコードを 正規化 → 参照整合 → アップサート → スキルリンク の順に処理します
type RecordPipeline struct {
	reconciler *ReferenceReconciler
	upserter   *UpsertEngine
	linker     *SkillLinker
	config     PipelineConfig
	log        *slog.Logger
}

// NewRecordPipeline は新しいRecordPipelineを作成します
func NewRecordPipeline(repos domain.Repositories, policy domain.LinkPolicy, config PipelineConfig, log *slog.Logger) *RecordPipeline {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if !config.SkillPairMode.IsValid() {
		config.SkillPairMode = domain.SkillPairModeTruncate
	}
	return &RecordPipeline{
		reconciler: NewReferenceReconciler(repos, log),
		upserter:   NewUpsertEngine(repos.Jobs, log),
		linker:     NewSkillLinker(repos.JobSkills, policy, log),
		config:     config,
		log:        log,
	}
}

// Process は1レコードを処理し、結果を返します
// エラーは RecordResult.Err に格納され、呼び出し元へ伝播しません
func (p *RecordPipeline) Process(ctx context.Context, index int, raw domain.RawRecord, syncedAt time.Time) domain.RecordResult {
	start := time.Now()
	result := domain.RecordResult{Index: index}
	if id, ok := raw.Value(domain.FieldID); ok {
		result.JobID = strings.TrimSpace(id)
	}

	// 複数回実行された場合も最初に成功したアップサートの分岐を報告する
	var firstAction domain.UpsertAction

	operation := func() (domain.UpsertAction, error) {
		result.Attempts++
		truncated, err := p.processOnce(ctx, raw, syncedAt, &firstAction)
		result.SkillsTruncated = truncated
		if err != nil {
			if domain.IsPermanent(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return firstAction, nil
	}

	var err error
	if p.config.MaxAttempts == 1 {
		result.Action, err = operation()
	} else {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = p.config.RetryDelay
		notify := func(err error, next time.Duration) {
			p.log.Warn("Retrying record",
				"index", index,
				"jobID", result.JobID,
				"attempt", result.Attempts,
				"next", next,
				"error", err,
			)
		}
		result.Action, err = backoff.Retry(ctx, operation,
			backoff.WithBackOff(bo),
			backoff.WithMaxTries(uint(p.config.MaxAttempts)),
			backoff.WithNotify(notify),
		)
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	if err != nil {
		result.Action = ""
		result.Err = err
	}

	if result.SkillsTruncated {
		p.log.Warn("Skills and skill names differ in length, extra entries ignored",
			"index", index,
			"jobID", result.JobID,
		)
	}

	result.Duration = time.Since(start)
	return result
}

func (p *RecordPipeline) processOnce(ctx context.Context, raw domain.RawRecord, syncedAt time.Time, firstAction *domain.UpsertAction) (truncated bool, err error) {
	job, err := domain.Normalize(raw, syncedAt)
	if err != nil {
		return false, err
	}

	pairs, mismatched, err := domain.SkillPairs(raw, p.config.SkillPairMode)
	if err != nil {
		return mismatched, fmt.Errorf("%w: %w", domain.ErrReconciliation, err)
	}

	if _, err := p.reconciler.EnsureCompany(ctx, raw); err != nil {
		return mismatched, err
	}
	if _, err := p.reconciler.EnsureTitle(ctx, raw); err != nil {
		return mismatched, err
	}
	if _, err := p.reconciler.EnsureSkills(ctx, pairs); err != nil {
		return mismatched, err
	}

	action, err := p.upserter.Upsert(ctx, job)
	if err != nil {
		return mismatched, err
	}
	if *firstAction == "" {
		*firstAction = action
	}

	if err := p.linker.Link(ctx, job.ID, pairs); err != nil {
		return mismatched, err
	}
	return mismatched, nil
}
