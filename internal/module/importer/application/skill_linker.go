package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// SkillLinker は job_skill をリンクポリシーに従って更新します
type SkillLinker struct {
	jobSkills domain.JobSkillRepository
	policy    domain.LinkPolicy
	log       *slog.Logger
}

// NewSkillLinker は新しいSkillLinkerを作成します
func NewSkillLinker(jobSkills domain.JobSkillRepository, policy domain.LinkPolicy, log *slog.Logger) *SkillLinker {
	if !policy.IsValid() {
		policy = domain.LinkPolicyReplace
	}
	return &SkillLinker{
		jobSkills: jobSkills,
		policy:    policy,
		log:       log,
	}
}

// Policy は適用中のリンクポリシーを返します
func (l *SkillLinker) Policy() domain.LinkPolicy {
	return l.policy
}

// Link はジョブとスキルの関連を作成します
//
//   - replace: ジョブの既存リンクを削除してから現在のスキル列を挿入します（再実行しても同じ結果）
//   - additive: 挿入のみ行い、既存リンクとの重複は成功として扱います
func (l *SkillLinker) Link(ctx context.Context, jobID string, pairs []domain.SkillPair) error {
	skillIDs := uniqueSkillIDs(pairs)

	switch l.policy {
	case domain.LinkPolicyAdditive:
		for _, skillID := range skillIDs {
			err := l.jobSkills.Link(ctx, jobID, skillID)
			if errors.Is(err, domain.ErrDuplicateLink) {
				l.log.Debug("Job skill already linked", "jobID", jobID, "skillID", skillID)
				continue
			}
			if err != nil {
				return fmt.Errorf("%w: failed to link job %s to skill %s: %w", domain.ErrLink, jobID, skillID, err)
			}
		}
	default:
		if err := l.jobSkills.ReplaceForJob(ctx, jobID, skillIDs); err != nil {
			return fmt.Errorf("%w: failed to replace skills of job %s: %w", domain.ErrLink, jobID, err)
		}
	}
	return nil
}

func uniqueSkillIDs(pairs []domain.SkillPair) []string {
	ids := make([]string, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}
