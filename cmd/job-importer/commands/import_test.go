package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/jinford/job-importer/internal/module/importer/adapter/progress"
	"github.com/jinford/job-importer/internal/module/importer/application"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	importertesting "github.com/jinford/job-importer/internal/module/importer/testing"
	"github.com/jinford/job-importer/internal/platform/config"
	"github.com/jinford/job-importer/internal/platform/metrics"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEnvSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		BatchSize:     10,
		BatchPause:    0,
		LinkPolicy:    "replace",
		SkillPairMode: "truncate",
		MaxAttempts:   1,
		RetryDelay:    time.Second,
	}
}

// parseSyncConfig はフラグを解析して同期設定を組み立てる
func parseSyncConfig(t *testing.T, args ...string) (application.SyncConfig, error) {
	t.Helper()
	var got application.SyncConfig
	var gotErr error
	cmd := &cli.Command{
		Name: "import",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "batch-size"},
			&cli.StringFlag{Name: "link-policy"},
			&cli.StringFlag{Name: "skill-pair-mode"},
			&cli.IntFlag{Name: "max-attempts"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			got, gotErr = syncConfigFromCommand(testEnvSyncConfig(), cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"import"}, args...)))
	return got, gotErr
}

func TestSyncConfigFromCommand(t *testing.T) {
	t.Run("フラグ未指定時は環境変数の設定", func(t *testing.T) {
		got, err := parseSyncConfig(t)

		require.NoError(t, err)
		assert.Equal(t, 10, got.BatchSize)
		assert.Equal(t, domain.LinkPolicyReplace, got.LinkPolicy)
		assert.Equal(t, domain.SkillPairModeTruncate, got.SkillPairMode)
		assert.Equal(t, 1, got.MaxAttempts)
		assert.Equal(t, time.Second, got.RetryDelay)
	})

	t.Run("フラグで上書き", func(t *testing.T) {
		got, err := parseSyncConfig(t,
			"--batch-size", "50",
			"--link-policy", "additive",
			"--skill-pair-mode", "strict",
			"--max-attempts", "3",
		)

		require.NoError(t, err)
		assert.Equal(t, 50, got.BatchSize)
		assert.Equal(t, domain.LinkPolicyAdditive, got.LinkPolicy)
		assert.Equal(t, domain.SkillPairModeStrict, got.SkillPairMode)
		assert.Equal(t, 3, got.MaxAttempts)
	})

	t.Run("範囲外のバッチサイズ", func(t *testing.T) {
		_, err := parseSyncConfig(t, "--batch-size", "101")

		assert.ErrorContains(t, err, "batch size")
	})

	t.Run("不明なリンク方針", func(t *testing.T) {
		_, err := parseSyncConfig(t, "--link-policy", "merge")

		assert.ErrorContains(t, err, "link policy")
	})
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportRunner_Run(t *testing.T) {
	// Setup
	store := importertesting.NewMemoryStore()
	collector := metrics.NewCollector()
	errorDir := t.TempDir()
	syncConfig := application.DefaultSyncConfig()
	syncConfig.BatchPause = 0

	runner := &importRunner{
		repos:       store.Repositories(),
		config:      syncConfig,
		log:         newTestLogger(),
		metrics:     collector,
		errorLogDir: errorDir,
		progressOut: progress.NewLogger(newTestLogger(), 0, false),
	}
	file := writeCSV(t, "ID,TITLE,TITLE_NAME,COMPANY,COMPANY_NAME,SKILLS,SKILLS_NAME\n"+
		"J1,T1,Engineer,77,Acme,\"[1,2]\",\"['Python','SQL']\"\n"+
		",T2,Designer,,,,\n"+
		"J3,T1,Engineer,77,Acme,,\n")

	// Execute
	summary, err := runner.Run(context.Background(), file)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 2, store.JobCount())

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Index)
	assert.Equal(t, domain.ErrorKindMissingIdentifier, summary.Errors[0].Kind)

	expected := `
# HELP job_import_records_total Total number of records processed, by outcome
# TYPE job_import_records_total counter
job_import_records_total{outcome="error"} 1
job_import_records_total{outcome="inserted"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "job_import_records_total"))

	entries, err := os.ReadDir(errorDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(errorDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"kind":"missing_identifier"`)
	assert.Contains(t, string(data), summary.RunID)
}

func TestImportRunner_Run_MissingFile(t *testing.T) {
	runner := &importRunner{
		repos:       importertesting.NewMemoryStore().Repositories(),
		config:      application.DefaultSyncConfig(),
		log:         newTestLogger(),
		progressOut: progress.NewLogger(newTestLogger(), 0, false),
	}

	summary, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	assert.Nil(t, summary)
	assert.ErrorContains(t, err, "failed to open csv file")
}

func TestRenderSummary(t *testing.T) {
	// Setup
	started := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	summary := &domain.RunSummary{
		RunID:      "run-1",
		Total:      3,
		Batches:    1,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}
	summary.Record(domain.RecordResult{Index: 1, JobID: "J1", Action: domain.UpsertActionInserted})
	summary.Record(domain.RecordResult{Index: 2, JobID: "J2", Action: domain.UpsertActionUpdated})
	summary.Record(domain.RecordResult{Index: 3, Err: domain.ErrMissingIdentifier})

	// Execute
	var buf bytes.Buffer
	renderSummary(&buf, summary)

	// Assert
	out := buf.String()
	assert.Contains(t, out, "Run ID: run-1")
	assert.Contains(t, out, "新規作成")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "失敗レコード")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "missing_identifier")
}

func TestRenderSummary_NoErrors(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, &domain.RunSummary{RunID: "run-1"})

	assert.NotContains(t, buf.String(), "失敗レコード")
}
