package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/job-importer/cmd/job-importer/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "job-importer",
		Usage: "求人CSVをデータベースへ同期するバッチインポーター",
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "CSVファイルを同期",
				Flags:  syncFlags(),
				Action: commands.ImportAction,
			},
			{
				Name:  "schedule",
				Usage: "CSVファイルをスケジュール同期",
				Flags: append(syncFlags(),
					&cli.StringFlag{
						Name:  "cron",
						Usage: "Cron形式のスケジュール (例: 0 3 * * * = 毎日3:00)",
						Value: "0 3 * * *",
					},
					&cli.BoolFlag{
						Name:  "run-now",
						Usage: "起動直後にも1回実行",
					},
				),
				Action: commands.ScheduleAction,
			},
			{
				Name:  "job",
				Usage: "求人参照コマンド",
				Commands: []*cli.Command{
					{
						Name:  "show",
						Usage: "求人詳細を表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "id",
								Usage:    "求人ID",
								Required: true,
							},
						},
						Action: commands.JobShowAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "データベース管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "テーブルを作成（既存テーブルは変更しない）",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.DBInitAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}
}

// syncFlags は import / schedule 共通のフラグ
// 同期設定のフラグは指定された場合のみ環境変数の設定を上書きする
func syncFlags() []cli.Flag {
	return []cli.Flag{
		envFlag(),
		&cli.StringFlag{
			Name:     "file",
			Usage:    "入力CSVファイルパス",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "1バッチあたりのレコード数 (1-100、省略時は SYNC_BATCH_SIZE)",
		},
		&cli.StringFlag{
			Name:  "link-policy",
			Usage: "job_skill の更新方針 (replace/additive、省略時は SYNC_LINK_POLICY)",
		},
		&cli.StringFlag{
			Name:  "skill-pair-mode",
			Usage: "SKILLS と SKILLS_NAME の件数不一致時の扱い (truncate/strict)",
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "レコードごとの最大試行回数 (省略時は SYNC_MAX_ATTEMPTS)",
		},
	}
}
