package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
)

// ScheduleAction はcron式に従ってインポートを定期実行するコマンドのアクション
// ctx がキャンセルされるまでブロックし、実行中のインポートの完了を待ってから終了する
func ScheduleAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	file := cmd.String("file")
	spec := cmd.String("cron")
	runNow := cmd.Bool("run-now")

	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("cron式が不正です: %q: %w", spec, err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	syncConfig, err := syncConfigFromCommand(appCtx.Config.Sync, cmd)
	if err != nil {
		return err
	}
	runner := newImportRunner(appCtx, syncConfig)

	if addr := appCtx.Config.MetricsAddr; addr != "" {
		go func() {
			if err := appCtx.Metrics.Serve(ctx, addr, appCtx.Logger); err != nil {
				appCtx.Logger.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	job := func() {
		if _, err := runner.Run(ctx, file); err != nil {
			appCtx.Logger.Error("Scheduled import failed", "file", file, "error", err)
		}
	}

	s, err := newScheduledImport(appCtx.Logger, spec, job)
	if err != nil {
		return err
	}

	s.Start()
	appCtx.Logger.Info("Scheduler started", "cron", spec, "file", file)

	if runNow {
		s.RunNow()
	}

	<-ctx.Done()

	// 実行中のジョブの完了を待つ
	s.Stop()
	appCtx.Logger.Info("Scheduler stopped")
	return nil
}

// scheduledImport は定期実行と即時実行を同じジョブチェーン（Recover, SkipIfStillRunning）で管理する
// 同時に走るインポートは常に1つまで
type scheduledImport struct {
	cron *cron.Cron
	job  cron.Job
	wg   sync.WaitGroup
}

func newScheduledImport(log *slog.Logger, spec string, run func()) (*scheduledImport, error) {
	c := newScheduler(log)
	id, err := c.AddFunc(spec, run)
	if err != nil {
		return nil, fmt.Errorf("failed to register schedule: %w", err)
	}
	return &scheduledImport{
		cron: c,
		job:  c.Entry(id).WrappedJob,
	}, nil
}

// Start はスケジューラーを開始する
func (s *scheduledImport) Start() {
	s.cron.Start()
}

// RunNow は登録済みのジョブを即時実行する
// 前回の実行が終わっていなければスキップされる
func (s *scheduledImport) RunNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
}

// Stop は新しい実行を止め、即時実行分を含む実行中のジョブの完了を待つ
func (s *scheduledImport) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// newScheduler は前回の実行が終わっていない場合に次の実行をスキップするスケジューラーを返す
func newScheduler(log *slog.Logger) *cron.Cron {
	logger := cronLogger{log: log}
	return cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
}

// cronLogger は cron.Logger を slog に適合させる
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
