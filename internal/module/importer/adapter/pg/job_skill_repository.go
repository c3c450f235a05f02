package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	"github.com/jinford/job-importer/internal/platform/database"
	"github.com/jinford/job-importer/internal/platform/lock"
)

// TxDB はトランザクションを開始できる DBTX です（*pgxpool.Pool など）
type TxDB interface {
	DBTX
	database.TxBeginner
}

// JobSkillRepository は job_skill テーブルへのアクセスを提供します
type JobSkillRepository struct {
	db DBTX
	tx *database.TransactionProvider
}

// NewJobSkillRepository は新しいJobSkillRepositoryを作成します
func NewJobSkillRepository(db TxDB) *JobSkillRepository {
	return &JobSkillRepository{
		db: db,
		tx: database.NewTransactionProvider(db),
	}
}

var _ domain.JobSkillRepository = (*JobSkillRepository)(nil)

// ReplaceForJob はジョブ単位のアドバイザリロックを取得したうえで、削除と挿入を1トランザクションで行います
func (r *JobSkillRepository) ReplaceForJob(ctx context.Context, jobID string, skillIDs []string) error {
	_, err := database.Transact(ctx, r.tx, func(tx pgx.Tx) (struct{}, error) {
		if err := lock.NewManager(tx).Acquire(ctx, lock.GenerateLockID("job_skill", jobID)); err != nil {
			return struct{}{}, err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM job_skill WHERE job = $1`, jobID); err != nil {
			return struct{}{}, fmt.Errorf("failed to delete job skills: %w", err)
		}

		if len(skillIDs) == 0 {
			return struct{}{}, nil
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO job_skill (job, skill)
			SELECT $1, s.skill
			FROM unnest($2::text[]) WITH ORDINALITY AS s(skill, ord)
			ORDER BY s.ord
		`, jobID, skillIDs)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to insert job skills: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// Link はリンクを1件挿入します
func (r *JobSkillRepository) Link(ctx context.Context, jobID, skillID string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO job_skill (job, skill) VALUES ($1, $2)`, jobID, skillID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("job %s, skill %s: %w", jobID, skillID, domain.ErrDuplicateLink)
		}
		return fmt.Errorf("failed to insert job skill: %w", err)
	}
	return nil
}

// ListByJob はジョブに紐づくスキルIDを挿入順に返します
func (r *JobSkillRepository) ListByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT skill FROM job_skill WHERE job = $1 ORDER BY id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job skills: %w", err)
	}

	skills, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan job skills: %w", err)
	}
	return skills, nil
}
