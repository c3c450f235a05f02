package pg

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

//go:embed schema.sql
var schema string

// Store は PostgreSQL 上のリポジトリ一式です
type Store struct {
	db TxDB
}

// NewStore は新しいStoreを作成します
func NewStore(db TxDB) *Store {
	return &Store{db: db}
}

// Repositories は同期エンジン用のリポジトリ一式を返します
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Jobs:      NewJobRepository(s.db),
		Companies: NewCompanyRepository(s.db),
		Titles:    NewTitleRepository(s.db),
		Skills:    NewSkillRepository(s.db),
		JobSkills: NewJobSkillRepository(s.db),
	}
}

// EnsureSchema はテーブルが存在しない場合に作成します（既存テーブルは変更しない）
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
