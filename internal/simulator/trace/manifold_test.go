package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/upfsim/internal/simulator/pool"
	"github.com/your-org/upfsim/pkg/model"
)

func values(samples []model.CounterSample) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func TestEmitComputesFromPrimaryState(t *testing.T) {
	p := pool.New()
	u := pool.NewUPF(p.NextUPFID, 2, 0)
	p.NextUPFID++
	p.AppendUPF(u)
	u.Add(&pool.Session{ID: 1})

	m := New()
	m.Emit(100, 1, 1, p, 2)

	tr := m.Trace()
	assert.Equal(t, []int{1}, values(tr.PDUs))
	assert.Equal(t, []int{1}, values(tr.UPFs))
	assert.Equal(t, []int{1}, values(tr.ActivePDUs))
	assert.Equal(t, []int{1}, values(tr.FreeSlots))
	assert.Equal(t, []int{1}, values(tr.BusyUPFs))
	assert.Equal(t, []int{0}, values(tr.IdleUPFs))
	assert.Equal(t, []int{1}, values(tr.DeployedUPFs))
	assert.InDelta(t, 0.5, tr.Utilization[0].Value, 1e-9)
}

func TestEmitOmitsUtilizationWhenEmpty(t *testing.T) {
	m := New()
	m.Emit(0, 0, 0, pool.New(), 2)
	assert.Empty(t, m.Trace().Utilization)
	assert.Len(t, m.Trace().DeployedUPFs, 1)
}

func TestRecordHelpers(t *testing.T) {
	m := New()
	m.RecordInterArrival(250)
	m.RecordSessionDuration(3, 12.0)
	m.RecordRejection(10, 4)

	tr := m.Trace()
	assert.Equal(t, []float64{250}, tr.InterArrivalTimesMS)
	assert.Equal(t, 3, tr.SessionDurations[0].SessionID)
	assert.Equal(t, 4, tr.RejectedSessions[0].SessionID)
	assert.Len(t, m.Rejected(), 1)
}
