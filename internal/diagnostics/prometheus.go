package diagnostics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus gauges/counters backing the §7 event stream, grounded on the
// teacher's internal/metrics-adjacent hubenschmidt-asr-llm-tts
// internal/metrics/metrics.go promauto declarations. These are exposed on
// an optional /metrics endpoint (Handler) the CLI can choose to serve;
// nothing in the pipeline itself depends on scraping.
var (
	StagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ams_pipeline_stages_total",
		Help: "Total stage runs by stage and outcome",
	}, []string{"stage", "outcome"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ams_pipeline_stage_duration_seconds",
		Help:    "Per-stage latency",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
	}, []string{"stage"})

	ChaptersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ams_pipeline_chapters_active",
		Help: "Chapters currently being processed",
	})

	BytesWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ams_pipeline_bytes_written_total",
		Help: "Total artifact bytes written by stage",
	}, []string{"stage"})
)

// Observe records ev against the prometheus collectors above, in addition
// to (not instead of) a Recorder.Record call.
func Observe(ev Event) {
	StagesTotal.WithLabelValues(ev.Stage, string(ev.Outcome)).Inc()
	StageDuration.WithLabelValues(ev.Stage).Observe(float64(ev.DurationMs) / 1000.0)
	if ev.BytesWritten > 0 {
		BytesWrittenTotal.WithLabelValues(ev.Stage).Add(float64(ev.BytesWritten))
	}
}

// Handler returns the promhttp handler for an optional /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
