package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// JobShowAction は同期済みの求人を表示するコマンドのアクション
func JobShowAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	id := cmd.String("id")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	job, err := appCtx.Repos.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("求人が見つかりません: %s", id)
		}
		return fmt.Errorf("求人の取得に失敗: %w", err)
	}

	skills, err := appCtx.Repos.JobSkills.ListByJob(ctx, id)
	if err != nil {
		return fmt.Errorf("スキルの取得に失敗: %w", err)
	}

	renderJob(os.Stdout, job, skills)
	return nil
}

// renderJob は値が存在するカラムとリンク済みスキルを表示する
func renderJob(w io.Writer, job *domain.JobRecord, skillIDs []string) {
	fmt.Fprintf(w, "\n=== 求人 %s ===\n", job.ID)

	table := newTable(w)
	table.Header("カラム", "値")
	for _, col := range job.Columns() {
		table.Append(col.Name, formatColumn(col))
	}
	table.Render()

	fmt.Fprintf(w, "\nリンク済みスキル: %d件\n", len(skillIDs))
	if len(skillIDs) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(skillIDs, ", "))
	}
}

func formatColumn(col domain.ColumnValue) string {
	switch v := col.Value.(type) {
	case time.Time:
		if col.Kind == domain.KindDate {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case []domain.Scalar:
		b, err := domain.EncodeList(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	case string:
		// 長い本文は省略
		const maxLen = 80
		if r := []rune(v); len(r) > maxLen {
			return string(r[:maxLen]) + "..."
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewWriter(w)
}
