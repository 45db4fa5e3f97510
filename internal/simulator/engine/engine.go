// Package engine implements C8: the top-level scheduler loop that drives
// the random source, event queue, UPF pool, placement policy, scale
// controller, migration policy and counter manifold through one run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/upfsim/internal/simulator/config"
	"github.com/your-org/upfsim/internal/simulator/eventqueue"
	"github.com/your-org/upfsim/internal/simulator/metrics"
	"github.com/your-org/upfsim/internal/simulator/migration"
	"github.com/your-org/upfsim/internal/simulator/placement"
	"github.com/your-org/upfsim/internal/simulator/pool"
	"github.com/your-org/upfsim/internal/simulator/rng"
	"github.com/your-org/upfsim/internal/simulator/scale"
	simtrace "github.com/your-org/upfsim/internal/simulator/trace"
	"github.com/your-org/upfsim/pkg/model"
)

// ErrTerminationNotFound reports invariant I4's violation: a TERMINATION
// event was dequeued with no session in the pool at that end_time.
var ErrTerminationNotFound = errors.New("engine: no session matches termination event's end_time")

// Engine runs one simulation to completion.
type Engine struct {
	logger *zap.Logger
	tracer oteltrace.Tracer
}

// New constructs an Engine. logger may be zap.NewNop() in tests.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, tracer: otel.Tracer("upfsim-engine")}
}

// run holds the mutable state threaded through one Run call.
type run struct {
	cfg      *config.Config
	scaleCfg scale.Config
	rngSrc   *rng.Source
	pool     *pool.Pool
	queue    *eventqueue.Queue
	manifold *simtrace.Manifold
	sessions int
	rejected int
	logger   *zap.Logger
	tracer   oteltrace.Tracer
}

// Run executes the scheduler loop of spec §4.8 to completion, or until ctx
// is cancelled between event pops.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) (*model.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &run{
		cfg:      cfg,
		rngSrc:   rng.New(cfg.Seed),
		pool:     pool.New(),
		queue:    eventqueue.New(),
		manifold: simtrace.New(),
		logger:   e.logger,
		tracer:   e.tracer,
	}
	r.scaleCfg = scale.Config{
		MaxUPFs:  cfg.MaxUPFs,
		MinUPFs:  cfg.MinUPFs,
		Capacity: cfg.MaxSessionsPerUPF,
	}
	if cfg.Throughput.Enabled {
		r.scaleCfg.ThroughputCapacity = cfg.Throughput.UPFCapacity
	}

	// runTraceID correlates this run's log lines and spans; it plays no
	// part in simulation state or determinism.
	runTraceID := uuid.NewString()
	r.logger.Info("run started",
		zap.String("run_trace_id", runTraceID),
		zap.Int("run_id", cfg.RunID),
		zap.Bool("seeded", r.rngSrc.Seeded()))

	r.queue.Push(eventqueue.Arrival, 0)

	var currentTime int64
	for r.queue.Len() > 0 && currentTime < cfg.SimulationTimeMS {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, _ := r.queue.Pop()
		currentTime = ev.Time
		r.manifold.Emit(currentTime, r.sessions, r.pool.NextUPFID, r.pool, cfg.MaxSessionsPerUPF)

		switch ev.Kind {
		case eventqueue.Arrival:
			r.handleArrival(ctx, currentTime)
		case eventqueue.Termination:
			if err := r.handleTermination(ctx, currentTime); err != nil {
				return nil, err
			}
		}
	}

	for _, u := range r.pool.Instances {
		r.logger.Info("upf terminated at run end",
			zap.Int("upf_id", u.ID), zap.Int("remaining_sessions", u.Count()))
	}

	accepted := r.sessions - r.rejected
	r.logger.Info("run finished",
		zap.String("run_trace_id", runTraceID),
		zap.Int("total", r.sessions), zap.Int("accepted", accepted), zap.Int("rejected", r.rejected))

	return &model.Result{
		RunID: cfg.RunID,
		Trace: r.manifold.Trace(),
		Summary: model.Summary{
			Total:    r.sessions,
			Rejected: r.rejected,
			Accepted: accepted,
			Deployed: r.pool.NextUPFID,
		},
	}, nil
}

func (r *run) handleArrival(ctx context.Context, now int64) {
	_, span := r.tracer.Start(ctx, "Engine.handleArrival")
	defer span.End()

	r.sessions++
	sessionID := r.sessions

	var demand float64
	if r.cfg.Throughput.Enabled {
		demand = r.rngSrc.Expo(r.cfg.Throughput.MeanSessionDemand)
	}

	target, ok := placement.Select(r.pool, placement.Case(r.cfg.UPFCase), r.rngSrc, demand, r.cfg.Throughput.Enabled)
	if !ok {
		if out, err := scale.Out(r.pool, r.scaleCfg); err == nil {
			metrics.RecordScaleOut()
			r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
			target, ok = out, true
		}
	}

	if !ok {
		r.rejected++
		r.manifold.RecordRejection(now, sessionID)
		metrics.RecordRejection()
		r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
		r.logger.Info("pdu session rejected",
			zap.Int64("time_ms", now), zap.Int("session_id", sessionID))
		span.SetAttributes(attribute.Bool("rejected", true))

		// A rejection does not end the arrival stream: the next arrival is
		// still drawn and scheduled.
		gap := ceilMS(r.rngSrc.Expo(1.0/r.cfg.ArrivalRate) * 1000)
		if now+gap <= r.cfg.SimulationTimeMS {
			r.queue.Push(eventqueue.Arrival, now+gap)
			r.manifold.RecordInterArrival(float64(gap))
		}
		return
	}

	durationMS := ceilMS(r.rngSrc.Expo(1.0/r.cfg.Mu) * 1000)
	endTime := now + durationMS
	sess := &pool.Session{ID: sessionID, StartTime: now, Duration: durationMS, EndTime: endTime, Throughput: demand}
	target.Add(sess)

	r.manifold.RecordSessionDuration(sessionID, float64(durationMS)/1000.0)
	metrics.RecordAdmission()
	r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
	r.queue.Push(eventqueue.Termination, endTime)

	r.logger.Debug("pdu session placed",
		zap.Int64("time_ms", now), zap.Int("session_id", sessionID),
		zap.Int("upf_id", target.ID), zap.Int64("end_time_ms", endTime))

	// Anticipatory scale-out: fires on exact equality only, and is not
	// re-evaluated after migration. Preserved literally.
	active := r.pool.ActiveSessions()
	threshold := r.pool.NumUPFs()*r.cfg.MaxSessionsPerUPF - r.cfg.ScaleOutThreshold - 1
	if active == threshold && r.pool.NumUPFs() < r.cfg.MaxUPFs {
		if _, err := scale.Out(r.pool, r.scaleCfg); err == nil {
			metrics.RecordScaleOut()
			r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
		}
	}

	gap := ceilMS(r.rngSrc.Expo(1.0/r.cfg.ArrivalRate) * 1000)
	if now+gap <= r.cfg.SimulationTimeMS {
		r.queue.Push(eventqueue.Arrival, now+gap)
		r.manifold.RecordInterArrival(float64(gap))
	}

	span.SetAttributes(attribute.Int("upf_id", target.ID))
}

func (r *run) handleTermination(ctx context.Context, now int64) error {
	_, span := r.tracer.Start(ctx, "Engine.handleTermination")
	defer span.End()

	sess, upf := r.pool.FindSessionByEndTime(now)
	if sess == nil {
		return fmt.Errorf("%w: time_ms=%d", ErrTerminationNotFound, now)
	}
	upf.Remove(sess)
	r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)

	outcome := migration.Apply(r.pool, upf, migration.Config{
		Regime:           migration.Regime(r.cfg.MigrationCase),
		Capacity:         r.cfg.MaxSessionsPerUPF,
		ScaleInThreshold: r.cfg.ScaleInThreshold,
	})

	if len(outcome.MigratedSessionIDs) > 0 {
		label := "migrated"
		if outcome.Quarantined {
			label = "quarantined"
		}
		metrics.RecordMigration(label, len(outcome.MigratedSessionIDs))
		r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
		r.logger.Info("sessions migrated",
			zap.Int64("time_ms", now), zap.Int("source_upf_id", upf.ID),
			zap.Int("target_upf_id", outcome.TargetUPFID),
			zap.Int("count", len(outcome.MigratedSessionIDs)))
	}

	// Only a UPF with no sessions left is retired; retiring one that still
	// hosts sessions would orphan their pending termination events.
	if outcome.ScaleInTrigger && !upf.IsBusy() {
		if err := scale.In(r.pool, upf, r.scaleCfg); err == nil {
			metrics.RecordScaleIn()
			r.manifold.Emit(now, r.sessions, r.pool.NextUPFID, r.pool, r.cfg.MaxSessionsPerUPF)
			r.logger.Info("upf scaled in", zap.Int64("time_ms", now), zap.Int("upf_id", upf.ID))
		}
	}

	span.SetAttributes(attribute.Int("session_id", sess.ID))
	return nil
}

// ceilMS rounds a real-valued millisecond quantity up to the next integer,
// per spec's "all event times are quantized to the next integer
// millisecond via ceiling" contract.
func ceilMS(ms float64) int64 {
	return int64(math.Ceil(ms))
}
