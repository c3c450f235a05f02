package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// === Job ===

// JobRepository は jobs テーブルへのアクセスを提供します
type JobRepository struct {
	db *sql.DB
}

var _ domain.JobRepository = (*JobRepository)(nil)

func (r *JobRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}
	return exists, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	names := make([]string, len(domain.JobColumns))
	targets := make([]any, len(domain.JobColumns))
	for i, spec := range domain.JobColumns {
		names[i] = quoteIdent(spec.Name)
		targets[i] = scanTarget(spec.Kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = ?`, strings.Join(names, ", "))
	if err := r.db.QueryRowContext(ctx, query, id).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *JobRepository) Insert(ctx context.Context, job *domain.JobRecord) error {
	cols := job.Columns()
	names := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		arg, err := columnArg(col)
		if err != nil {
			return err
		}
		names = append(names, quoteIdent(col.Name))
		args = append(args, arg)
	}

	query := fmt.Sprintf(`INSERT INTO jobs (%s) VALUES (%s)`,
		strings.Join(names, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.JobRecord) error {
	var sets []string
	var args []any
	for _, col := range job.Columns() {
		if col.Name == "id" {
			continue
		}
		arg, err := columnArg(col)
		if err != nil {
			return err
		}
		sets = append(sets, quoteIdent(col.Name)+" = ?")
		args = append(args, arg)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, job.ID)

	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = ?`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job not found: %s: %w", job.ID, domain.ErrNotFound)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// === Company ===

// CompanyRepository は company テーブルへのアクセスを提供します
type CompanyRepository struct {
	db *sql.DB
}

var _ domain.CompanyRepository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM company WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check company existence: %w", err)
	}
	return exists, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var name sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT company_name FROM company WHERE id = ?`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company not found: %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &domain.Company{ID: id, Name: name.String}, nil
}

func (r *CompanyRepository) Insert(ctx context.Context, company domain.Company) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO company (id, company_name) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		company.ID, nullString(company.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// === Title / Skill ===

// taxonomyTable は id / name / latest_version を持つ参照テーブルの共通処理です
type taxonomyTable struct {
	db    *sql.DB
	table string
	label string
}

func (t taxonomyTable) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)`, t.table)
	if err := t.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", t.label, err)
	}
	return exists, nil
}

func (t taxonomyTable) get(ctx context.Context, id string) (string, bool, error) {
	var name sql.NullString
	var latest bool
	query := fmt.Sprintf(`SELECT name, latest_version FROM %s WHERE id = ?`, t.table)
	if err := t.db.QueryRowContext(ctx, query, id).Scan(&name, &latest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, fmt.Errorf("%s not found: %s: %w", t.label, id, domain.ErrNotFound)
		}
		return "", false, fmt.Errorf("failed to get %s: %w", t.label, err)
	}
	return name.String, latest, nil
}

func (t taxonomyTable) insert(ctx context.Context, id, name string, latest bool) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, latest_version) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`, t.table)
	if _, err := t.db.ExecContext(ctx, query, id, nullString(name), latest); err != nil {
		return fmt.Errorf("failed to insert %s: %w", t.label, err)
	}
	return nil
}

// TitleRepository は title_taxonomy テーブルへのアクセスを提供します
type TitleRepository struct {
	db *sql.DB
}

var _ domain.TitleRepository = (*TitleRepository)(nil)

func (r *TitleRepository) table() taxonomyTable {
	return taxonomyTable{db: r.db, table: "title_taxonomy", label: "title"}
}

func (r *TitleRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.table().exists(ctx, id)
}

func (r *TitleRepository) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	name, latest, err := r.table().get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Title{ID: id, Name: name, LatestVersion: latest}, nil
}

func (r *TitleRepository) Insert(ctx context.Context, title domain.Title) error {
	return r.table().insert(ctx, title.ID, title.Name, title.LatestVersion)
}

// SkillRepository は skill_2_skill_pt_br テーブルへのアクセスを提供します
type SkillRepository struct {
	db *sql.DB
}

var _ domain.SkillRepository = (*SkillRepository)(nil)

func (r *SkillRepository) table() taxonomyTable {
	return taxonomyTable{db: r.db, table: "skill_2_skill_pt_br", label: "skill"}
}

func (r *SkillRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.table().exists(ctx, id)
}

func (r *SkillRepository) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	name, latest, err := r.table().get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Skill{ID: id, Name: name, LatestVersion: latest}, nil
}

func (r *SkillRepository) Insert(ctx context.Context, skill domain.Skill) error {
	return r.table().insert(ctx, skill.ID, skill.Name, skill.LatestVersion)
}

// === JobSkill ===

// JobSkillRepository は job_skill テーブルへのアクセスを提供します
type JobSkillRepository struct {
	db *sql.DB
}

var _ domain.JobSkillRepository = (*JobSkillRepository)(nil)

// ReplaceForJob は削除と挿入を1トランザクションで行います
func (r *JobSkillRepository) ReplaceForJob(ctx context.Context, jobID string, skillIDs []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM job_skill WHERE job = ?`, jobID); err != nil {
		return fmt.Errorf("failed to delete job skills: %w", err)
	}
	for _, skillID := range skillIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO job_skill (job, skill) VALUES (?, ?)`, jobID, skillID); err != nil {
			return fmt.Errorf("failed to insert job skill: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Link はリンクを1件挿入します。既存の場合は ErrDuplicateLink を返します
func (r *JobSkillRepository) Link(ctx context.Context, jobID, skillID string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO job_skill (job, skill) VALUES (?, ?) ON CONFLICT (job, skill) DO NOTHING`, jobID, skillID)
	if err != nil {
		return fmt.Errorf("failed to insert job skill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s, skill %s: %w", jobID, skillID, domain.ErrDuplicateLink)
	}
	return nil
}

func (r *JobSkillRepository) ListByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT skill FROM job_skill WHERE job = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job skills: %w", err)
	}
	defer rows.Close()

	var skills []string
	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("failed to scan job skill: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job skills: %w", err)
	}
	return skills, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
