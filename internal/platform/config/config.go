package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ストアドライバー
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// ストア設定
	Store StoreConfig

	// 同期設定
	Sync SyncConfig

	// ログ設定
	Log LogConfig

	// 進捗イベント配信設定
	Redis RedisConfig

	// MetricsAddr は Prometheus の公開アドレス（空の場合は無効）
	MetricsAddr string

	// ErrorLogDir は失敗レコードのJSONL出力先（空の場合は無効）
	ErrorLogDir string
}

// DatabaseConfig はデータベース接続設定
// URL が設定されている場合は個別パラメータより優先します
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StoreConfig は書き込み先ストアの設定
type StoreConfig struct {
	Driver     string // "postgres" or "sqlite"
	SQLitePath string
}

// SyncConfig はバッチ同期の設定
type SyncConfig struct {
	BatchSize     int
	BatchPause    time.Duration
	LinkPolicy    string // "replace" or "additive"
	SkillPairMode string // "truncate" or "strict"
	MaxAttempts   int
	RetryDelay    time.Duration
}

// LogConfig はロガー設定
type LogConfig struct {
	Level  slog.Level
	Format string // "json" or "text"
	File   string
}

// RedisConfig は進捗イベント配信設定
type RedisConfig struct {
	URL     string
	Channel string
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			SQLitePath: getEnv("SQLITE_PATH", "job-importer.db"),
		},
		Sync: SyncConfig{
			BatchSize:     getEnvAsInt("SYNC_BATCH_SIZE", 10),
			BatchPause:    getEnvAsDuration("SYNC_BATCH_PAUSE", 100*time.Millisecond),
			LinkPolicy:    strings.ToLower(getEnv("SYNC_LINK_POLICY", "replace")),
			SkillPairMode: strings.ToLower(getEnv("SYNC_SKILL_PAIR_MODE", "truncate")),
			MaxAttempts:   getEnvAsInt("SYNC_MAX_ATTEMPTS", 1),
			RetryDelay:    getEnvAsDuration("SYNC_RETRY_DELAY", 2*time.Second),
		},
		Log: LogConfig{
			Level:  getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:   getEnv("LOG_FILE", ""),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Channel: getEnv("REDIS_CHANNEL", "job_import_progress"),
		},
		MetricsAddr: getEnv("METRICS_ADDR", ""),
		ErrorLogDir: getEnv("ERROR_LOG_DIR", ""),
	}

	return cfg, nil
}

// Validate は設定値を検証します
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	if c.Sync.BatchSize < 1 || c.Sync.BatchSize > 100 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be between 1 and 100, got %d", c.Sync.BatchSize)
	}
	if c.Sync.LinkPolicy != "replace" && c.Sync.LinkPolicy != "additive" {
		return fmt.Errorf("unknown SYNC_LINK_POLICY: %q", c.Sync.LinkPolicy)
	}
	if c.Sync.SkillPairMode != "truncate" && c.Sync.SkillPairMode != "strict" {
		return fmt.Errorf("unknown SYNC_SKILL_PAIR_MODE: %q", c.Sync.SkillPairMode)
	}
	if c.Sync.MaxAttempts < 1 {
		return fmt.Errorf("SYNC_MAX_ATTEMPTS must be at least 1, got %d", c.Sync.MaxAttempts)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("unknown LOG_FORMAT: %q", c.Log.Format)
	}
	return nil
}

// ConnString はpgx用の接続文字列を返します
// 空の値のキーは含めず、空白や引用符を含む値はシングルクォートで囲みます
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}

	port := ""
	if d.Port > 0 {
		port = strconv.Itoa(d.Port)
	}
	params := []struct {
		key   string
		value string
	}{
		{"host", d.Host},
		{"port", port},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.DBName},
		{"sslmode", d.SSLMode},
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteConnValue(p.value))
	}
	return strings.Join(parts, " ")
}

var connValueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteConnValue(v string) string {
	if !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	return "'" + connValueEscaper.Replace(v) + "'"
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数を time.Duration として取得します（例: "250ms", "2s"）
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsLevel は環境変数をログレベルとして取得します（debug, info, warn, error）
func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(valueStr)); err != nil {
		return defaultValue
	}
	return level
}
