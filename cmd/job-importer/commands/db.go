package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DBInitAction はローカル開発用にテーブルを作成するコマンドのアクション
// 既存のテーブルは変更しない
func DBInitAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// SQLite はオープン時にテーブルを作成済み
	if appCtx.pgStore != nil {
		if err := appCtx.pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	fmt.Printf("✓ テーブルを作成しました（%s）\n", appCtx.Config.Store.Driver)
	return nil
}
