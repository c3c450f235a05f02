package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

//go:embed schema.sql
var schema string

// Store はローカル実行用の SQLite ストアです
type Store struct {
	db *sql.DB
}

// Open は path の SQLite データベースを開き、テーブルが無ければ作成します
// path に ":memory:" を指定するとインメモリデータベースになります
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite は単一ライター。インメモリDBも接続ごとに別DBになるため1本に固定する
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close はデータベースを閉じます
func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories は同期エンジン用のリポジトリ一式を返します
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Jobs:      &JobRepository{db: s.db},
		Companies: &CompanyRepository{db: s.db},
		Titles:    &TitleRepository{db: s.db},
		Skills:    &SkillRepository{db: s.db},
		JobSkills: &JobSkillRepository{db: s.db},
	}
}
