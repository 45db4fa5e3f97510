// Package metrics exposes the counter manifold's live streams as Prometheus
// gauges, in the same style as the teacher's common/metrics package:
// promauto-registered collectors plus a small Server wrapping an
// http.Server around promhttp.Handler.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_active_sessions",
		Help: "Number of PDU sessions currently placed on a UPF.",
	})

	FreeSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_free_slots",
		Help: "Total unused session capacity across all deployed UPFs.",
	})

	BusyUPFs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_busy_upfs",
		Help: "Number of deployed UPFs with at least one active session.",
	})

	IdleUPFs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_idle_upfs",
		Help: "Number of deployed UPFs with zero active sessions.",
	})

	DeployedUPFs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_deployed_upfs",
		Help: "Number of UPF instances currently in the pool.",
	})

	Utilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upfsim_utilization_ratio",
		Help: "Pool-wide session utilization, active_sessions / (num_upfs * capacity).",
	})

	SessionsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upfsim_sessions_admitted_total",
		Help: "Total number of PDU sessions successfully placed.",
	})

	SessionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upfsim_sessions_rejected_total",
		Help: "Total number of arrivals rejected because no UPF could admit them.",
	})

	ScaleOutEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upfsim_scale_out_total",
		Help: "Total number of UPF scale-out operations.",
	})

	ScaleInEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upfsim_scale_in_total",
		Help: "Total number of UPF scale-in operations.",
	})

	MigrationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upfsim_migrations_total",
		Help: "Total number of sessions migrated, by outcome.",
	}, []string{"outcome"})
)

// SetGauges pushes one counter-manifold snapshot into the gauge set.
func SetGauges(active, free, busy, idle, deployed int, utilization float64) {
	ActiveSessions.Set(float64(active))
	FreeSlots.Set(float64(free))
	BusyUPFs.Set(float64(busy))
	IdleUPFs.Set(float64(idle))
	DeployedUPFs.Set(float64(deployed))
	Utilization.Set(utilization)
}

// RecordAdmission records one successfully placed session.
func RecordAdmission() { SessionsAdmitted.Inc() }

// RecordRejection records one rejected arrival.
func RecordRejection() { SessionsRejected.Inc() }

// RecordScaleOut records one scale-out operation.
func RecordScaleOut() { ScaleOutEvents.Inc() }

// RecordScaleIn records one scale-in operation.
func RecordScaleIn() { ScaleInEvents.Inc() }

// RecordMigration records a batch of migrated sessions under outcome
// ("migrated" or "quarantined").
func RecordMigration(outcome string, count int) {
	MigrationEvents.WithLabelValues(outcome).Add(float64(count))
}

// Server wraps a Prometheus exposition endpoint.
type Server struct {
	port   int
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a metrics server bound to port.
func NewServer(port int, logger *zap.Logger) *Server {
	return &Server{port: port, logger: logger}
}

// Start runs the metrics HTTP server; it blocks until Stop is called or the
// server fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("starting metrics server", zap.Int("port", s.port))
	return s.server.ListenAndServe()
}

// Stop gracefully stops the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
