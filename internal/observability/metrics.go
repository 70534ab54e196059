// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationRunsTotal prometheus.Counter
	SimulatedDaysTotal  prometheus.Counter

	// Optimization metrics
	OptimizationRunsTotal *prometheus.CounterVec
	OptimizationDuration  prometheus.Histogram
	CandidateMeanProfit   *prometheus.GaugeVec
	SelectedQuantity      prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal   *prometheus.CounterVec
	ReportsWritten      *prometheus.CounterVec
	ReportWriteFailures *prometheus.CounterVec

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulPipeline prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "newsvendor_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Simulation metrics
		SimulationRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of completed simulation runs",
		}),
		SimulatedDaysTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "days_total",
			Help:      "Total number of simulated days",
		}),

		// Optimization metrics
		OptimizationRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Total number of optimization runs by status",
		}, []string{"status"}),
		OptimizationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "duration_seconds",
			Help:      "Optimization duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		CandidateMeanProfit: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidate_mean_profit_cents",
			Help:      "Mean daily profit of the last evaluation per order quantity",
		}, []string{"quantity"}),
		SelectedQuantity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "selected_quantity",
			Help:      "Order quantity chosen by the last optimization",
		}),

		// Pipeline metrics
		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		ReportsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_written_total",
			Help:      "Total number of report files written by format",
		}, []string{"format"}),
		ReportWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "report_write_failures_total",
			Help:      "Total number of report files that could not be written",
		}, []string{"format"}),

		// API metrics
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		// Health metrics
		LastSuccessfulPipeline: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordSimulationRun counts one completed run of days simulated days.
func RecordSimulationRun(days int) {
	DefaultMetrics.SimulationRunsTotal.Inc()
	DefaultMetrics.SimulatedDaysTotal.Add(float64(days))
}

// RecordOptimization records an optimization run outcome and its duration.
func RecordOptimization(status string, seconds float64) {
	DefaultMetrics.OptimizationRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.OptimizationDuration.Observe(seconds)
}

// SetCandidateMeanProfit publishes the mean daily profit for one quantity.
func SetCandidateMeanProfit(quantity int, meanProfit float64) {
	DefaultMetrics.CandidateMeanProfit.WithLabelValues(strconv.Itoa(quantity)).Set(meanProfit)
}

// SetSelectedQuantity publishes the optimizer's choice.
func SetSelectedQuantity(quantity int) {
	DefaultMetrics.SelectedQuantity.Set(float64(quantity))
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(status string, unixSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		DefaultMetrics.LastSuccessfulPipeline.Set(unixSeconds)
	}
}

// RecordReportWrite records the outcome of writing one report file.
func RecordReportWrite(format string, err error) {
	if err != nil {
		DefaultMetrics.ReportWriteFailures.WithLabelValues(format).Inc()
		return
	}
	DefaultMetrics.ReportsWritten.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records one served API request.
func RecordHTTPRequest(method, route string, code int, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// Run status labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
