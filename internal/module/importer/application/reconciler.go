package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// ReferenceReconciler は求人が参照する企業・職種・スキルの存在を保証します
//
// いずれも「存在確認してから挿入」で、名称は初回作成時のものを保持し更新しません。
// 参照フィールドが値なしの場合は何もしません（プレースホルダーは作成しません）。
type ReferenceReconciler struct {
	companies domain.CompanyRepository
	titles    domain.TitleRepository
	skills    domain.SkillRepository
	log       *slog.Logger
}

// NewReferenceReconciler は新しいReferenceReconcilerを作成します
func NewReferenceReconciler(repos domain.Repositories, log *slog.Logger) *ReferenceReconciler {
	return &ReferenceReconciler{
		companies: repos.Companies,
		titles:    repos.Titles,
		skills:    repos.Skills,
		log:       log,
	}
}

// EnsureCompany は COMPANY が示す企業の存在を保証します
// 作成した場合は created=true を返します
func (r *ReferenceReconciler) EnsureCompany(ctx context.Context, raw domain.RawRecord) (created bool, err error) {
	v, ok := raw.Value(domain.FieldCompany)
	if !ok {
		return false, nil
	}
	id, ok := domain.ParseCompanyID(v)
	if !ok {
		return false, nil
	}

	exists, err := r.companies.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check company %d: %w", domain.ErrReconciliation, id, err)
	}
	if exists {
		return false, nil
	}

	name, _ := raw.Value(domain.FieldCompanyName)
	if err := r.companies.Insert(ctx, domain.Company{ID: id, Name: name}); err != nil {
		return false, fmt.Errorf("%w: failed to create company %d: %w", domain.ErrReconciliation, id, err)
	}

	r.log.Debug("Company created", "companyID", id, "name", name)
	return true, nil
}

// EnsureTitle は TITLE が示す職種の存在を保証します
func (r *ReferenceReconciler) EnsureTitle(ctx context.Context, raw domain.RawRecord) (created bool, err error) {
	v, ok := raw.Value(domain.FieldTitle)
	if !ok {
		return false, nil
	}
	id, ok := domain.ParseTitleCode(v)
	if !ok {
		return false, nil
	}

	exists, err := r.titles.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check title %s: %w", domain.ErrReconciliation, id, err)
	}
	if exists {
		return false, nil
	}

	name, _ := raw.Value(domain.FieldTitleName)
	title := domain.Title{ID: id, Name: name, LatestVersion: true}
	if err := r.titles.Insert(ctx, title); err != nil {
		return false, fmt.Errorf("%w: failed to create title %s: %w", domain.ErrReconciliation, id, err)
	}

	r.log.Debug("Title created", "titleID", id, "name", name)
	return true, nil
}

// EnsureSkills は各スキルの存在を保証し、作成した件数を返します
// 同じIDが複数回現れた場合は最初の名称を採用します
func (r *ReferenceReconciler) EnsureSkills(ctx context.Context, pairs []domain.SkillPair) (created int, err error) {
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		if _, ok := seen[pair.ID]; ok {
			continue
		}
		seen[pair.ID] = struct{}{}

		exists, err := r.skills.Exists(ctx, pair.ID)
		if err != nil {
			return created, fmt.Errorf("%w: failed to check skill %s: %w", domain.ErrReconciliation, pair.ID, err)
		}
		if exists {
			continue
		}

		skill := domain.Skill{ID: pair.ID, Name: pair.Name, LatestVersion: true}
		if err := r.skills.Insert(ctx, skill); err != nil {
			return created, fmt.Errorf("%w: failed to create skill %s: %w", domain.ErrReconciliation, pair.ID, err)
		}
		created++
	}
	return created, nil
}
