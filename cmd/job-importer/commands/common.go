package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/job-importer/internal/module/importer/adapter/pg"
	"github.com/jinford/job-importer/internal/module/importer/adapter/sqlite"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	"github.com/jinford/job-importer/internal/platform/config"
	"github.com/jinford/job-importer/internal/platform/database"
	"github.com/jinford/job-importer/internal/platform/events"
	"github.com/jinford/job-importer/internal/platform/logger"
	"github.com/jinford/job-importer/internal/platform/metrics"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config  *config.Config
	Logger  *slog.Logger
	Repos   domain.Repositories
	Metrics *metrics.Collector
	// Events は REDIS_URL 未設定または接続失敗時は nil
	Events *events.Publisher

	pgStore *pg.Store
	closers []func()
}

// NewAppContext は設定ファイルを読み込み、ストアに接続して AppContext を作成する
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	appLogger := logger.New(logCfg)

	ac := &AppContext{
		Config:  cfg,
		Logger:  appLogger,
		Metrics: metrics.NewCollector(),
	}

	if err := ac.openStore(ctx); err != nil {
		ac.Close()
		return nil, err
	}

	if cfg.Redis.URL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// 進捗配信は任意機能のため同期は継続する
			appLogger.Warn("Progress events disabled", "error", err)
		} else {
			ac.Events = events.NewPublisher(rdb, cfg.Redis.Channel, appLogger)
			ac.closers = append(ac.closers, func() { rdb.Close() })
		}
	}

	return ac, nil
}

func (ac *AppContext) openStore(ctx context.Context) error {
	switch ac.Config.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, ac.Config.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("SQLiteストアの初期化に失敗: %w", err)
		}
		ac.Repos = store.Repositories()
		ac.closers = append(ac.closers, func() { store.Close() })
		ac.Logger.Debug("Using sqlite store", "path", ac.Config.Store.SQLitePath)
	default:
		db, err := database.New(ctx, ac.Config.Database.ConnString())
		if err != nil {
			return fmt.Errorf("データベース接続に失敗: %w", err)
		}
		ac.pgStore = pg.NewStore(db.Pool)
		ac.Repos = ac.pgStore.Repositories()
		ac.closers = append(ac.closers, db.Close)
		ac.Logger.Debug("Using postgres store")
	}
	return nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	for i := len(ac.closers) - 1; i >= 0; i-- {
		ac.closers[i]()
	}
	ac.closers = nil
}
