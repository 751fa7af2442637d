package sweep

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics records sweep progress in Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	assignments *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers sweep metrics on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchsim_sweep_runs_total",
		Help: "Total number of finished sweep runs",
	}, []string{"method", "status"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchsim_sweep_assignments_total",
		Help: "Total number of assignments committed across sweep runs",
	}, []string{"method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matchsim_sweep_run_duration_seconds",
		Help:    "Wall-clock duration of one sweep run",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &Metrics{runs: runs, assignments: assignments, duration: duration}, nil
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(rec Record, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(rec.Method, rec.Status).Inc()
	m.assignments.WithLabelValues(rec.Method).Add(float64(rec.Assignments))
	m.duration.WithLabelValues(rec.Method).Observe(elapsed.Seconds())
}

// StartMetricsServer serves the default gatherer on addr until ctx is
// canceled. A dedicated ServeMux is used.
func StartMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("metrics server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
