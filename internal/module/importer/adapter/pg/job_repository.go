package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// JobRepository は jobs テーブルへのアクセスを提供します
type JobRepository struct {
	db DBTX
}

// NewJobRepository は新しいJobRepositoryを作成します
func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

var _ domain.JobRepository = (*JobRepository)(nil)

// Exists はIDのジョブが存在するかを返します
func (r *JobRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}
	return exists, nil
}

// GetByID はIDでジョブを取得します
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	names := make([]string, len(domain.JobColumns))
	targets := make([]any, len(domain.JobColumns))
	for i, spec := range domain.JobColumns {
		names[i] = pgx.Identifier{spec.Name}.Sanitize()
		targets[i] = scanTarget(spec.Kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, strings.Join(names, ", "))
	if err := r.db.QueryRow(ctx, query, id).Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job not found: %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := &domain.JobRecord{}
	for i, spec := range domain.JobColumns {
		value, err := scannedValue(spec, targets[i])
		if err != nil {
			return nil, err
		}
		if err := job.SetColumn(spec.Name, value); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// Insert は値が存在するカラムのみで新しいジョブを挿入します
func (r *JobRepository) Insert(ctx context.Context, job *domain.JobRecord) error {
	cols := job.Columns()
	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))

	for i, col := range cols {
		arg, err := columnArg(col)
		if err != nil {
			return err
		}
		names = append(names, pgx.Identifier{col.Name}.Sanitize())
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, arg)
	}

	query := fmt.Sprintf(`INSERT INTO jobs (%s) VALUES (%s)`,
		strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Update は値が存在するカラムのみを更新します（id は更新しない）
func (r *JobRepository) Update(ctx context.Context, job *domain.JobRecord) error {
	sets := make([]string, 0, len(domain.JobColumns))
	args := []any{job.ID}

	for _, col := range job.Columns() {
		if col.Name == "id" {
			continue
		}
		arg, err := columnArg(col)
		if err != nil {
			return err
		}
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", pgx.Identifier{col.Name}.Sanitize(), len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s: %w", job.ID, domain.ErrNotFound)
	}
	return nil
}
