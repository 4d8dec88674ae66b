package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	analysisStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})
	analysisCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed, by predicted disease",
	}, []string{"disease"})
	analysisFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total analyses failed, by reason",
	}, []string{"reason"})
	inferenceDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_duration_ms",
		Help:    "Classifier inference duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000},
	})
	reportsRenderedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_rendered_total",
		Help: "Total PDF reports rendered, by outcome",
	}, []string{"outcome"})
)

func init() {
	registry.MustRegister(
		analysisStartedTotal,
		analysisCompletedTotal,
		analysisFailedTotal,
		inferenceDuration,
		reportsRenderedTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted increments the completed counter for a disease label.
func IncAnalysisCompleted(disease string) {
	analysisCompletedTotal.WithLabelValues(disease).Inc()
}

// IncAnalysisFailed increments the failed counter for a reason code.
func IncAnalysisFailed(reason string) {
	analysisFailedTotal.WithLabelValues(reason).Inc()
}

// ObserveInference records an inference duration.
func ObserveInference(d time.Duration) {
	if d < 0 {
		d = 0
	}
	inferenceDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncReportRendered counts a PDF render attempt by outcome ("ok" or "failed").
func IncReportRendered(outcome string) {
	reportsRenderedTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
