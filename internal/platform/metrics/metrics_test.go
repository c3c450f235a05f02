package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	// Setup
	c := NewCollector()

	// Execute
	c.RecordSucceeded("inserted", 10*time.Millisecond)
	c.RecordSucceeded("inserted", 10*time.Millisecond)
	c.RecordSucceeded("updated", 5*time.Millisecond)
	c.RecordFailed("upsert", time.Millisecond)
	c.BatchCompleted()

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(c.records.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.records.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.records.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.recordErrors.WithLabelValues("upsert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batches))
}

func TestCollector_RunFinished(t *testing.T) {
	c := NewCollector()
	finishedAt := time.Unix(1700000000, 0)

	c.RunFinished(3*time.Second, 2, finishedAt)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.lastRunSeconds))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lastRunErrored))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(c.lastRunTime))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector()
		NewCollector()
	})
}

func TestCollector_Handler(t *testing.T) {
	// Setup
	c := NewCollector()
	c.RecordSucceeded("inserted", time.Millisecond)
	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	// Execute
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `job_import_records_total{outcome="inserted"} 1`)
}
