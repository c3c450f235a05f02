package domain

import "context"

// === Job Repository Port ===

// JobRepository は jobs の永続化ポートです
type JobRepository interface {
	JobReader
	JobWriter
}

// JobReader は jobs の読み取り操作を定義します
type JobReader interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*JobRecord, error)
}

// JobWriter は jobs の書き込み操作を定義します
// Update はレコードに存在するカラムのみを更新し、それ以外は保持します
type JobWriter interface {
	Insert(ctx context.Context, job *JobRecord) error
	Update(ctx context.Context, job *JobRecord) error
}

// === Reference Repository Ports ===

// CompanyRepository は company の永続化ポートです
type CompanyRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	Insert(ctx context.Context, company Company) error
}

// TitleRepository は title_taxonomy の永続化ポートです
type TitleRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*Title, error)
	Insert(ctx context.Context, title Title) error
}

// SkillRepository は skill_2_skill_pt_br の永続化ポートです
type SkillRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*Skill, error)
	Insert(ctx context.Context, skill Skill) error
}

// === JobSkill Repository Port ===

// JobSkillRepository は job_skill の永続化ポートです
type JobSkillRepository interface {
	// ReplaceForJob はジョブの既存リンクを全削除してから skillIDs を挿入します
	ReplaceForJob(ctx context.Context, jobID string, skillIDs []string) error
	// Link はリンクを1件挿入します。既に存在する場合は ErrDuplicateLink を返します
	Link(ctx context.Context, jobID, skillID string) error
	ListByJob(ctx context.Context, jobID string) ([]string, error)
}

// Repositories は同期エンジンが使用するストアの集合です
type Repositories struct {
	Jobs      JobRepository
	Companies CompanyRepository
	Titles    TitleRepository
	Skills    SkillRepository
	JobSkills JobSkillRepository
}
