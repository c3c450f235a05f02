package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// UpsertEngine は存在確認の結果に応じて jobs を挿入または更新します
//
// 存在確認と書き込みは同一トランザクションではありません。
// 同じIDに対する同期を並行実行した場合の更新消失・重複挿入エラーは許容しません（単一書き込み前提）。
type UpsertEngine struct {
	jobs domain.JobRepository
	log  *slog.Logger
}

// NewUpsertEngine は新しいUpsertEngineを作成します
func NewUpsertEngine(jobs domain.JobRepository, log *slog.Logger) *UpsertEngine {
	return &UpsertEngine{
		jobs: jobs,
		log:  log,
	}
}

// Upsert は正規化済みレコードを書き込み、実行した分岐を返します
// 更新時はレコードに存在するカラムのみを書き換えます
func (e *UpsertEngine) Upsert(ctx context.Context, job *domain.JobRecord) (domain.UpsertAction, error) {
	if job == nil || job.ID == "" {
		return "", domain.ErrMissingIdentifier
	}

	exists, err := e.jobs.Exists(ctx, job.ID)
	if err != nil {
		return "", fmt.Errorf("%w: failed to check job %s: %w", domain.ErrUpsert, job.ID, err)
	}

	if exists {
		if err := e.jobs.Update(ctx, job); err != nil {
			return "", fmt.Errorf("%w: failed to update job %s: %w", domain.ErrUpsert, job.ID, err)
		}
		e.log.Debug("Job updated", "jobID", job.ID)
		return domain.UpsertActionUpdated, nil
	}

	if err := e.jobs.Insert(ctx, job); err != nil {
		return "", fmt.Errorf("%w: failed to insert job %s: %w", domain.ErrUpsert, job.ID, err)
	}
	e.log.Debug("Job inserted", "jobID", job.ID)
	return domain.UpsertActionInserted, nil
}
