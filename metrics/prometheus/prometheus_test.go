package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, e *Exporter) string {
	t.Helper()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestExporter_ExposesMetrics(t *testing.T) {
	e := NewExporter(":0")

	RecordConnectionOpened()
	RecordMessage("frame", StatusSuccess)
	RecordMessage("frame", StatusError)
	RecordFrameDuration(0.042)
	RecordSegmentDuration(0.007)
	RecordBackgroundChange(StatusSuccess)
	RecordUpload(StatusError)
	SetBackgroundCount(7)
	defer RecordConnectionClosed()

	body := scrape(t, e)
	for _, want := range []string{
		"backdrop_connections_active",
		`backdrop_messages_total{status="success",type="frame"}`,
		`backdrop_messages_total{status="error",type="frame"}`,
		"backdrop_frame_duration_seconds",
		"backdrop_segment_duration_seconds",
		`backdrop_background_changes_total{status="success"}`,
		`backdrop_uploads_total{status="error"}`,
		"backdrop_backgrounds_registered 7",
	} {
		assert.Contains(t, body, want)
	}

	// Go runtime collectors are registered too.
	assert.Contains(t, body, "go_goroutines")
}

func TestExporter_ConnectionGauge(t *testing.T) {
	e := NewExporter(":0")

	RecordConnectionOpened()
	RecordConnectionOpened()
	RecordConnectionClosed()

	body := scrape(t, e)
	found := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "backdrop_connections_active ") {
			found = true
			assert.True(t, strings.HasSuffix(line, " 1"),
				"expected gauge value 1, got line: %s", line)
		}
	}
	assert.True(t, found, "connections gauge missing from scrape")

	RecordConnectionClosed()
}

func TestExporter_WithCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewExporterWithRegistry(":0", reg)
	require.Same(t, reg, e.Registry())

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total"})
	e.MustRegister(counter)
	counter.Inc()

	body := scrape(t, e)
	assert.Contains(t, body, "custom_total 1")
	assert.NotContains(t, body, "backdrop_connections_active")
}

func TestExporter_RegisterDuplicateFails(t *testing.T) {
	e := NewExporterWithRegistry(":0", prometheus.NewRegistry())

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_total"})
	require.NoError(t, e.Register(counter))
	assert.Error(t, e.Register(counter))
}
