package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// 参照マスタの挿入は ON CONFLICT DO NOTHING とし、先に登録された名前を保持する

// === Company ===

// CompanyRepository は company テーブルへのアクセスを提供します
type CompanyRepository struct {
	db DBTX
}

// NewCompanyRepository は新しいCompanyRepositoryを作成します
func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ domain.CompanyRepository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM company WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check company existence: %w", err)
	}
	return exists, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var name pgtype.Text
	err := r.db.QueryRow(ctx, `SELECT company_name FROM company WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company not found: %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &domain.Company{ID: id, Name: name.String}, nil
}

func (r *CompanyRepository) Insert(ctx context.Context, company domain.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO company (id, company_name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		company.ID, StringToPgtext(company.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// === Title ===

// TitleRepository は title_taxonomy テーブルへのアクセスを提供します
type TitleRepository struct {
	db DBTX
}

// NewTitleRepository は新しいTitleRepositoryを作成します
func NewTitleRepository(db DBTX) *TitleRepository {
	return &TitleRepository{db: db}
}

var _ domain.TitleRepository = (*TitleRepository)(nil)

func (r *TitleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM title_taxonomy WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}
	return exists, nil
}

func (r *TitleRepository) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	var name pgtype.Text
	var latest bool
	err := r.db.QueryRow(ctx, `SELECT name, latest_version FROM title_taxonomy WHERE id = $1`, id).Scan(&name, &latest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("title not found: %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get title: %w", err)
	}
	return &domain.Title{ID: id, Name: name.String, LatestVersion: latest}, nil
}

func (r *TitleRepository) Insert(ctx context.Context, title domain.Title) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO title_taxonomy (id, name, latest_version) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		title.ID, StringToPgtext(title.Name), title.LatestVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert title: %w", err)
	}
	return nil
}

// === Skill ===

// SkillRepository は skill_2_skill_pt_br テーブルへのアクセスを提供します
type SkillRepository struct {
	db DBTX
}

// NewSkillRepository は新しいSkillRepositoryを作成します
func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

var _ domain.SkillRepository = (*SkillRepository)(nil)

func (r *SkillRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_2_skill_pt_br WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check skill existence: %w", err)
	}
	return exists, nil
}

func (r *SkillRepository) GetByID(ctx context.Context, id string) (*domain.Skill, error) {
	var name pgtype.Text
	var latest bool
	err := r.db.QueryRow(ctx, `SELECT name, latest_version FROM skill_2_skill_pt_br WHERE id = $1`, id).Scan(&name, &latest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("skill not found: %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &domain.Skill{ID: id, Name: name.String, LatestVersion: latest}, nil
}

func (r *SkillRepository) Insert(ctx context.Context, skill domain.Skill) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_2_skill_pt_br (id, name, latest_version) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		skill.ID, StringToPgtext(skill.Name), skill.LatestVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert skill: %w", err)
	}
	return nil
}
