// Package metrics records run outcomes as Prometheus metrics and writes
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sctest/internal/domain"
)

const (
	MetricsNamespace = "sctest"
)

// Recorder collects metrics for one process. It uses its own registry so
// the textfile only carries sctest series.
type Recorder struct {
	registry *prometheus.Registry

	testsTotal      *prometheus.CounterVec
	testDuration    *prometheus.HistogramVec
	runSuccess      prometheus.Gauge
	runDuration     prometheus.Gauge
	runTimestamp    prometheus.Gauge
	runResults      *prometheus.GaugeVec
	runsInterrupted prometheus.Counter
}

// NewRecorder creates a new Recorder
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tests_total",
			Help:      "Count of executed tests by suite and status",
		}, []string{
			"suite",
			"status",
		}),
		testDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of single tests",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{
			"suite",
		}),
		runSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_success",
			Help:      "1 if the last run passed, 0 otherwise",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		runTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run",
		}),
		runResults: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_results",
			Help:      "Results of the last run by status",
		}, []string{
			"status",
		}),
		runsInterrupted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_interrupted_total",
			Help:      "Runs stopped early by fail-fast or cancellation",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RunStarted(int) {}

func (r *Recorder) TestStarted(string, string) {}

func (r *Recorder) TestFinished(res domain.TestResult) {
	r.testsTotal.WithLabelValues(res.Suite, string(res.Status)).Inc()
	if res.Name != "" {
		r.testDuration.WithLabelValues(res.Suite).Observe(res.Duration.Seconds())
	}
}

func (r *Recorder) RunFinished(run *domain.RunResult) {
	passed, failures, errs, skipped := run.Counts()
	r.runResults.WithLabelValues(string(domain.StatusPass)).Set(float64(passed))
	r.runResults.WithLabelValues(string(domain.StatusFail)).Set(float64(failures))
	r.runResults.WithLabelValues(string(domain.StatusError)).Set(float64(errs))
	r.runResults.WithLabelValues(string(domain.StatusSkip)).Set(float64(skipped))

	r.runDuration.Set(run.Duration.Seconds())
	r.runTimestamp.Set(float64(run.StartedAt.Unix()))
	if run.WasSuccessful() {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
	if run.Interrupted {
		r.runsInterrupted.Inc()
	}
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
