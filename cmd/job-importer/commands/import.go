package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jinford/job-importer/internal/module/importer/adapter/csvsource"
	"github.com/jinford/job-importer/internal/module/importer/adapter/errorlog"
	"github.com/jinford/job-importer/internal/module/importer/adapter/progress"
	"github.com/jinford/job-importer/internal/module/importer/application"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	"github.com/jinford/job-importer/internal/platform/config"
	"github.com/jinford/job-importer/internal/platform/events"
	"github.com/jinford/job-importer/internal/platform/metrics"
)

// ImportAction はCSVファイルを読み込んでストアに同期するコマンドのアクション
func ImportAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	file := cmd.String("file")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	syncConfig, err := syncConfigFromCommand(appCtx.Config.Sync, cmd)
	if err != nil {
		return err
	}

	if addr := appCtx.Config.MetricsAddr; addr != "" {
		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := appCtx.Metrics.Serve(metricsCtx, addr, appCtx.Logger); err != nil {
				appCtx.Logger.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	runner := newImportRunner(appCtx, syncConfig)
	summary, runErr := runner.Run(ctx, file)
	if summary != nil {
		renderSummary(os.Stdout, summary)
	}
	if runErr != nil {
		return runErr
	}
	if summary.Errored > 0 {
		return cli.Exit(fmt.Sprintf("%d件のレコードが失敗しました", summary.Errored), 2)
	}
	return nil
}

// syncConfigFromCommand は環境変数の設定にコマンドラインフラグを上書きした同期設定を返す
func syncConfigFromCommand(cfg config.SyncConfig, cmd *cli.Command) (application.SyncConfig, error) {
	sc := application.SyncConfig{
		BatchSize:     cfg.BatchSize,
		BatchPause:    cfg.BatchPause,
		LinkPolicy:    domain.LinkPolicy(cfg.LinkPolicy),
		SkillPairMode: domain.SkillPairMode(cfg.SkillPairMode),
		MaxAttempts:   cfg.MaxAttempts,
		RetryDelay:    cfg.RetryDelay,
	}

	if cmd.IsSet("batch-size") {
		sc.BatchSize = cmd.Int("batch-size")
	}
	if cmd.IsSet("link-policy") {
		sc.LinkPolicy = domain.LinkPolicy(cmd.String("link-policy"))
	}
	if cmd.IsSet("skill-pair-mode") {
		sc.SkillPairMode = domain.SkillPairMode(cmd.String("skill-pair-mode"))
	}
	if cmd.IsSet("max-attempts") {
		sc.MaxAttempts = cmd.Int("max-attempts")
	}

	if err := sc.Validate(); err != nil {
		return application.SyncConfig{}, fmt.Errorf("同期設定が不正です: %w", err)
	}
	return sc, nil
}

// importRunner はCSVの読み込みから同期・結果通知までの1回分の実行を担う
type importRunner struct {
	repos       domain.Repositories
	config      application.SyncConfig
	log         *slog.Logger
	metrics     *metrics.Collector
	events      *events.Publisher
	errorLogDir string
	progressOut *progress.Logger
}

func newImportRunner(appCtx *AppContext, syncConfig application.SyncConfig) *importRunner {
	return &importRunner{
		repos:       appCtx.Repos,
		config:      syncConfig,
		log:         appCtx.Logger,
		metrics:     appCtx.Metrics,
		events:      appCtx.Events,
		errorLogDir: appCtx.Config.ErrorLogDir,
		progressOut: progress.NewLogger(appCtx.Logger, 5*time.Second, appCtx.Config.Log.Level <= slog.LevelDebug),
	}
}

// Run は file を読み込んで同期し、集計結果を返す
func (r *importRunner) Run(ctx context.Context, file string) (*domain.RunSummary, error) {
	records, err := csvsource.ReadFile(file)
	if err != nil {
		return nil, err
	}
	r.log.Info("CSV loaded", "file", file, "records", len(records))

	errLog, err := errorlog.NewWriter(r.errorLogDir)
	if err != nil {
		return nil, err
	}
	defer errLog.Close()

	config := r.config
	config.OnStart = func(runID string, total, batches int) {
		r.publish(ctx, events.Event{Type: events.TypeRunStarted, RunID: runID, Total: total, Batches: batches})
	}
	config.OnRecord = func(result domain.RecordResult) {
		r.onRecord(ctx, errLog, result)
	}
	config.OnBatch = func(p domain.BatchProgress) {
		r.onBatch(ctx, p)
	}

	service, err := application.NewSyncService(r.repos, config, r.log)
	if err != nil {
		return nil, err
	}

	summary, runErr := service.Run(ctx, records)
	if summary == nil {
		return nil, runErr
	}

	r.progressOut.LogFinal(summary)
	if r.metrics != nil {
		r.metrics.RunFinished(summary.Duration(), summary.Errored, summary.FinishedAt)
	}
	r.publish(ctx, events.Event{
		Type:      events.TypeRunFinished,
		RunID:     summary.RunID,
		Batches:   summary.Batches,
		Total:     summary.Total,
		Attempted: summary.Attempted,
		Processed: summary.Processed,
		Inserted:  summary.Inserted,
		Updated:   summary.Updated,
		Errored:   summary.Errored,
	})
	if errLog.Path() != "" && summary.Errored > 0 {
		r.log.Info("Failed records exported", "path", errLog.Path(), "count", summary.Errored)
	}

	return summary, runErr
}

func (r *importRunner) onRecord(ctx context.Context, errLog *errorlog.Writer, result domain.RecordResult) {
	if result.Succeeded() {
		if r.metrics != nil {
			r.metrics.RecordSucceeded(string(result.Action), result.Duration)
		}
		return
	}

	rerr := domain.NewRecordError(result)
	if r.metrics != nil {
		r.metrics.RecordFailed(string(rerr.Kind), result.Duration)
	}
	if err := errLog.Write(result.RunID, rerr); err != nil {
		r.log.Warn("Failed to write error log", "index", result.Index, "error", err)
	}
	r.publish(ctx, events.Event{
		Type:  events.TypeRecordFailed,
		RunID: result.RunID,
		Index: result.Index,
		JobID: result.JobID,
		Error: rerr.Error(),
	})
}

func (r *importRunner) onBatch(ctx context.Context, p domain.BatchProgress) {
	r.progressOut.OnBatch(p)
	if r.metrics != nil {
		r.metrics.BatchCompleted()
	}
	r.publish(ctx, events.Event{
		Type:      events.TypeBatchCompleted,
		RunID:     p.RunID,
		Batch:     p.Batch,
		Batches:   p.Batches,
		Total:     p.Total,
		Attempted: p.Attempted,
		Processed: p.Processed,
		Inserted:  p.Inserted,
		Updated:   p.Updated,
		Errored:   p.Errored,
	})
}

func (r *importRunner) publish(ctx context.Context, event events.Event) {
	if r.events == nil {
		return
	}
	// キャンセル後も最後のイベントは配信する
	r.events.Publish(context.WithoutCancel(ctx), event)
}

// renderSummary は実行結果をテーブル形式で表示する
func renderSummary(w io.Writer, s *domain.RunSummary) {
	fmt.Fprintln(w, "\n=== 同期結果 ===")
	fmt.Fprintf(w, "Run ID: %s\n\n", s.RunID)

	table := newTable(w)
	table.Header("項目", "値")
	table.Append("総レコード数", fmt.Sprintf("%d", s.Total))
	table.Append("処理済み", fmt.Sprintf("%d", s.Attempted))
	table.Append("成功", fmt.Sprintf("%d", s.Processed))
	table.Append("新規作成", fmt.Sprintf("%d", s.Inserted))
	table.Append("更新", fmt.Sprintf("%d", s.Updated))
	table.Append("失敗", fmt.Sprintf("%d", s.Errored))
	if s.Truncated > 0 {
		table.Append("スキル切り詰め", fmt.Sprintf("%d", s.Truncated))
	}
	table.Append("バッチ数", fmt.Sprintf("%d", s.Batches))
	table.Append("所要時間", s.Duration().Round(time.Millisecond).String())
	if s.Aborted {
		table.Append("中断", "yes")
	}
	table.Render()

	if len(s.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "\n=== 失敗レコード ===")
	errTable := newTable(w)
	errTable.Header("行", "ID", "種別", "エラー")
	for _, e := range s.Errors {
		id := e.JobID
		if id == "" {
			id = "unknown"
		}
		errTable.Append(fmt.Sprintf("%d", e.Index), id, string(e.Kind), e.Err.Error())
	}
	errTable.Render()
}
