package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// イベント種別
const (
	TypeRunStarted     = "RUN_STARTED"
	TypeBatchCompleted = "BATCH_COMPLETED"
	TypeRecordFailed   = "RECORD_FAILED"
	TypeRunFinished    = "RUN_FINISHED"
)

// NewRedisClient は redisURL を解析し、疎通を確認したクライアントを返します
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Event は進捗イベントのペイロードです
type Event struct {
	Type      string    `json:"type"`
	RunID     string    `json:"runId"`
	Batch     int       `json:"batch,omitempty"`
	Batches   int       `json:"batches,omitempty"`
	Total     int       `json:"total"`
	Attempted int       `json:"attempted"`
	Processed int       `json:"processed"`
	Inserted  int       `json:"inserted"`
	Updated   int       `json:"updated"`
	Errored   int       `json:"errored"`
	Index     int       `json:"index,omitempty"`
	JobID     string    `json:"jobId,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// redisPublisher は Publish のみを使うためのインターフェースです
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher は進捗イベントを Redis Pub/Sub に配信します
// 配信の失敗は同期処理を止めないため、警告ログのみ出力します
type Publisher struct {
	rdb     redisPublisher
	channel string
	log     *slog.Logger
	now     func() time.Time
}

// NewPublisher は新しいPublisherを作成します
func NewPublisher(rdb redisPublisher, channel string, log *slog.Logger) *Publisher {
	return &Publisher{
		rdb:     rdb,
		channel: channel,
		log:     log,
		now:     time.Now,
	}
}

// Publish はイベントを配信します
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("Failed to encode progress event", "type", event.Type, "error", err)
		return
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn("Failed to publish progress event",
			"channel", p.channel,
			"type", event.Type,
			"error", err,
		)
	}
}
