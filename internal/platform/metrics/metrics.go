package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector は同期処理の Prometheus 指標を収集します
// 指標は専用のレジストリに登録するため、複数生成してもグローバル状態と衝突しません
type Collector struct {
	registry *prometheus.Registry

	records        *prometheus.CounterVec
	recordErrors   *prometheus.CounterVec
	recordDuration prometheus.Histogram
	batches        prometheus.Counter
	lastRunSeconds prometheus.Gauge
	lastRunErrored prometheus.Gauge
	lastRunTime    prometheus.Gauge
}

// NewCollector は新しいCollectorを作成します
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "job_import_records_total",
			Help: "Total number of records processed, by outcome",
		}, []string{"outcome"}),
		recordErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "job_import_record_errors_total",
			Help: "Total number of failed records, by error kind",
		}, []string{"kind"}),
		recordDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "job_import_record_duration_seconds",
			Help:    "Per-record processing time in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "job_import_batches_total",
			Help: "Total number of completed batches",
		}),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "job_import_last_run_duration_seconds",
			Help: "Duration of the last completed run in seconds",
		}),
		lastRunErrored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "job_import_last_run_errored_records",
			Help: "Number of failed records in the last completed run",
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "job_import_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}

	c.registry.MustRegister(
		c.records,
		c.recordErrors,
		c.recordDuration,
		c.batches,
		c.lastRunSeconds,
		c.lastRunErrored,
		c.lastRunTime,
	)

	return c
}

// Registry は指標を登録したレジストリを返します
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordSucceeded は成功したレコードを記録します（action: inserted | updated）
func (c *Collector) RecordSucceeded(action string, duration time.Duration) {
	c.records.WithLabelValues(action).Inc()
	c.recordDuration.Observe(duration.Seconds())
}

// RecordFailed は失敗したレコードを記録します
func (c *Collector) RecordFailed(kind string, duration time.Duration) {
	c.records.WithLabelValues("error").Inc()
	c.recordErrors.WithLabelValues(kind).Inc()
	c.recordDuration.Observe(duration.Seconds())
}

// BatchCompleted はバッチの完了を記録します
func (c *Collector) BatchCompleted() {
	c.batches.Inc()
}

// RunFinished は実行全体の結果を記録します
func (c *Collector) RunFinished(duration time.Duration, errored int, finishedAt time.Time) {
	c.lastRunSeconds.Set(duration.Seconds())
	c.lastRunErrored.Set(float64(errored))
	c.lastRunTime.Set(float64(finishedAt.Unix()))
}

// Handler は /metrics 用の HTTP ハンドラーを返します
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve は addr で /metrics を公開し、ctx がキャンセルされるまでブロックします
func (c *Collector) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting metrics server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown metrics server: %w", err)
		}
		return nil
	}
}
