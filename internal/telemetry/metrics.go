package telemetry

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pdf417go "github.com/ericlevine/pdf417go"
)

// MetricsObserver counts decoder events.
type MetricsObserver struct {
	stageEvents     *prometheus.CounterVec
	errorsCorrected prometheus.Histogram
	erasures        prometheus.Histogram
	decoded         prometheus.Counter
}

// NewMetricsObserver registers the decoder metrics on reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)
	return &MetricsObserver{
		stageEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdf417_stage_events_total",
				Help: "Total number of pipeline events by stage and outcome",
			},
			[]string{"stage", "outcome"}, // outcome: ok, failed
		),
		errorsCorrected: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdf417_errors_corrected",
				Help:    "Codewords repaired by error correction per symbol",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
			},
		),
		erasures: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdf417_codeword_erasures",
				Help:    "Unreadable codewords per sampled symbol",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
			},
		),
		decoded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pdf417_barcodes_decoded_total",
				Help: "Total number of decoded barcodes",
			},
		),
	}
}

// Observe updates the counters for e.
func (m *MetricsObserver) Observe(e pdf417go.Event) {
	outcome := "ok"
	if e.Failed() {
		outcome = "failed"
	}
	m.stageEvents.WithLabelValues(string(e.Stage), outcome).Inc()
	if e.Failed() {
		return
	}

	switch e.Stage {
	case pdf417go.StageCodewords:
		if n, ok := intAttr(e, "erasures"); ok {
			m.erasures.Observe(float64(n))
		}
	case pdf417go.StageCorrect:
		if n, ok := intAttr(e, "errors_corrected"); ok {
			m.errorsCorrected.Observe(float64(n))
		}
	case pdf417go.StageResult:
		m.decoded.Inc()
	}
}

func intAttr(e pdf417go.Event, key string) (int64, bool) {
	for _, a := range e.Attrs {
		if a.Key == key && a.Value.Kind() == slog.KindInt64 {
			return a.Value.Int64(), true
		}
	}
	return 0, false
}
