package lock

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Manager はトランザクションスコープのアドバイザリロックを取得します
type Manager struct {
	tx pgx.Tx
}

// NewManager はトランザクションからロックマネージャーを生成します
func NewManager(tx pgx.Tx) *Manager {
	return &Manager{tx: tx}
}

// GenerateLockID は文字列からロックIDを生成します
// 例: GenerateLockID("job_skill", jobID)
func GenerateLockID(parts ...string) int64 {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		// "ab"+"c" と "a"+"bc" を区別する
		h.Write([]byte{0})
	}
	hash := h.Sum(nil)

	// ハッシュの最初の8バイトをint64として使用
	var id int64
	for i := range 8 {
		id = (id << 8) | int64(hash[i])
	}

	return id
}

// Acquire はPostgreSQLアドバイザリロックを取得します（pg_advisory_xact_lock）
// ロックはトランザクション終了時に自動的に解放されます
func (m *Manager) Acquire(ctx context.Context, lockID int64) error {
	if _, err := m.tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockID); err != nil {
		return fmt.Errorf("failed to acquire advisory lock %d: %w", lockID, err)
	}
	return nil
}
