package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner はトランザクションを開始できる接続です（*pgxpool.Pool, *pgx.Conn など）
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionProvider follows the pattern described in https://threedots.tech/post/database-transactions-in-go/
// It hides pgx transactions behind a callback that receives the open transaction.
type TransactionProvider struct {
	db TxBeginner
}

// NewTransactionProvider は新しいTransactionProviderを作成します
func NewTransactionProvider(db TxBeginner) *TransactionProvider {
	return &TransactionProvider{db: db}
}

// Transact opens a transaction and passes it to fn.
// fn がエラーを返した場合はロールバックし、成功した場合はコミットします
func Transact[T any](ctx context.Context, p *TransactionProvider, fn func(pgx.Tx) (T, error)) (T, error) {
	var zero T
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return zero, fmt.Errorf("tx rollback failed: %v (original err: %w)", rbErr, err)
		}
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}
