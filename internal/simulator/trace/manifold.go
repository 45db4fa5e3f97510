// Package trace implements C7: the counter manifold. After every
// state-changing step it recomputes the derived counters from primary pool
// state — never from incremental deltas — and appends one row to each
// trace stream.
package trace

import (
	"github.com/your-org/upfsim/internal/simulator/metrics"
	"github.com/your-org/upfsim/internal/simulator/pool"
	"github.com/your-org/upfsim/pkg/model"
)

// Manifold accumulates the abstract trace streams for one run.
type Manifold struct {
	pdus         []model.CounterSample
	upfsLaunched []model.CounterSample
	active       []model.CounterSample
	free         []model.CounterSample
	busy         []model.CounterSample
	idle         []model.CounterSample
	deployed     []model.CounterSample
	utilization  []model.UtilizationSample

	interArrival     []float64
	sessionDurations []model.SessionDuration
	rejected         []model.RejectedSession
}

// New returns an empty Manifold.
func New() *Manifold { return &Manifold{} }

// Emit recomputes active_sessions, free_slots, busy_upfs, idle_upfs and
// num_upfs from p, appends one row to each of the eight trace streams, and
// mirrors the same snapshot onto the Prometheus gauges so /metrics always
// reflects the latest observation point. sessionCounter and nextUPFID are
// the engine's monotonic counters (total sessions generated, total UPFs
// ever launched) — primary state the manifold does not itself own. The
// utilization row is omitted when the pool is empty.
func (m *Manifold) Emit(now int64, sessionCounter, nextUPFID int, p *pool.Pool, capacity int) {
	num := p.NumUPFs()
	active := p.ActiveSessions()
	free := p.FreeSlots()
	busy := p.BusyUPFs()
	idle := p.IdleUPFs()

	m.pdus = append(m.pdus, model.CounterSample{TimeMS: now, Value: sessionCounter})
	m.upfsLaunched = append(m.upfsLaunched, model.CounterSample{TimeMS: now, Value: nextUPFID})
	m.active = append(m.active, model.CounterSample{TimeMS: now, Value: active})
	m.free = append(m.free, model.CounterSample{TimeMS: now, Value: free})
	m.busy = append(m.busy, model.CounterSample{TimeMS: now, Value: busy})
	m.idle = append(m.idle, model.CounterSample{TimeMS: now, Value: idle})
	m.deployed = append(m.deployed, model.CounterSample{TimeMS: now, Value: num})

	var u float64
	if num != 0 {
		for _, inst := range p.Instances {
			u += float64(inst.Count()) / float64(num*capacity)
		}
		m.utilization = append(m.utilization, model.UtilizationSample{TimeMS: now, Value: u})
	}

	metrics.SetGauges(active, free, busy, idle, num, u)
}

// RecordInterArrival appends one inter-arrival gap (ms), for every
// scheduled arrival after the first.
func (m *Manifold) RecordInterArrival(gapMS float64) {
	m.interArrival = append(m.interArrival, gapMS)
}

// RecordSessionDuration appends the sampled duration of a placed session,
// in seconds, stored as given (no rounding is applied here).
func (m *Manifold) RecordSessionDuration(sessionID int, durationSeconds float64) {
	m.sessionDurations = append(m.sessionDurations, model.SessionDuration{
		SessionID:       sessionID,
		DurationSeconds: durationSeconds,
	})
}

// RecordRejection appends a rejected arrival.
func (m *Manifold) RecordRejection(now int64, sessionID int) {
	m.rejected = append(m.rejected, model.RejectedSession{TimeMS: now, SessionID: sessionID})
}

// Rejected returns the rejected-session records accumulated so far.
func (m *Manifold) Rejected() []model.RejectedSession { return m.rejected }

// Trace materializes the accumulated streams as a model.Trace snapshot.
func (m *Manifold) Trace() model.Trace {
	return model.Trace{
		PDUs:                m.pdus,
		UPFs:                m.upfsLaunched,
		ActivePDUs:          m.active,
		FreeSlots:           m.free,
		BusyUPFs:            m.busy,
		IdleUPFs:            m.idle,
		DeployedUPFs:        m.deployed,
		Utilization:         m.utilization,
		InterArrivalTimesMS: m.interArrival,
		SessionDurations:    m.sessionDurations,
		RejectedSessions:    m.rejected,
	}
}
