package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "backdrop"

// Status constants for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// connectionsActive is a gauge of currently open streaming connections.
	connectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of currently open streaming connections",
		},
	)

	// messagesTotal counts inbound messages by classified type and outcome.
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of inbound streaming messages",
		},
		[]string{"type", "status"}, // type: frame, set_background, ping, unrecognized
	)

	// frameDuration is a histogram of full frame pipeline duration in seconds
	// (decode, segment, composite, encode).
	frameDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Histogram of frame processing duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// segmentDuration is a histogram of the segmentation step alone.
	segmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_duration_seconds",
			Help:      "Histogram of segmentation inference duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// backgroundChangesTotal counts background selection requests by outcome.
	backgroundChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_changes_total",
			Help:      "Total number of background change requests",
		},
		[]string{"status"},
	)

	// uploadsTotal counts background uploads by outcome.
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of background upload requests",
		},
		[]string{"status"},
	)

	// backgroundsRegistered is a gauge of stored catalog entries.
	backgroundsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backgrounds_registered",
			Help:      "Number of backgrounds in the registry (excluding sentinels)",
		},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		connectionsActive,
		messagesTotal,
		frameDuration,
		segmentDuration,
		backgroundChangesTotal,
		uploadsTotal,
		backgroundsRegistered,
	}
)

// RecordConnectionOpened increments the active connection gauge.
func RecordConnectionOpened() {
	connectionsActive.Inc()
}

// RecordConnectionClosed decrements the active connection gauge.
func RecordConnectionClosed() {
	connectionsActive.Dec()
}

// RecordMessage records one classified inbound message.
func RecordMessage(msgType, status string) {
	messagesTotal.WithLabelValues(msgType, status).Inc()
}

// RecordFrameDuration records one full frame pipeline pass.
func RecordFrameDuration(durationSeconds float64) {
	frameDuration.Observe(durationSeconds)
}

// RecordSegmentDuration records one segmentation inference.
func RecordSegmentDuration(durationSeconds float64) {
	segmentDuration.Observe(durationSeconds)
}

// RecordBackgroundChange records a background selection request.
func RecordBackgroundChange(status string) {
	backgroundChangesTotal.WithLabelValues(status).Inc()
}

// RecordUpload records an upload request.
func RecordUpload(status string) {
	uploadsTotal.WithLabelValues(status).Inc()
}

// SetBackgroundCount sets the registry size gauge.
func SetBackgroundCount(n int) {
	backgroundsRegistered.Set(float64(n))
}
