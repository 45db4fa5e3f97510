package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/upfsim/internal/simulator/pool"
)

func buildPool(capacity int, counts ...int) (*pool.Pool, []*pool.UPF) {
	p := pool.New()
	var us []*pool.UPF
	for _, c := range counts {
		u := pool.NewUPF(p.NextUPFID, capacity, 0)
		p.NextUPFID++
		p.AppendUPF(u)
		for i := 0; i < c; i++ {
			u.Add(&pool.Session{ID: p.NextUPFID*100 + i})
		}
		us = append(us, u)
	}
	return p, us
}

func TestRegime1NoMigrateThresholdTrigger(t *testing.T) {
	p, us := buildPool(2, 0, 1)
	source := us[0]
	out := Apply(p, source, Config{Regime: NoMigrateThreshold, Capacity: 2, ScaleInThreshold: p.FreeSlots()})
	assert.Empty(t, out.MigratedSessionIDs)
	assert.True(t, out.ScaleInTrigger)
}

func TestRegime2Unconditional(t *testing.T) {
	p, us := buildPool(2, 0, 1)
	out := Apply(p, us[0], Config{Regime: NoMigrateUnconditional, Capacity: 2})
	assert.Empty(t, out.MigratedSessionIDs)
	assert.True(t, out.ScaleInTrigger)
}

func TestRegime3MigratesToMostLoadedOther(t *testing.T) {
	p, us := buildPool(3, 1, 2)
	source := us[0]
	out := Apply(p, source, Config{Regime: MigrateThreshold, Capacity: 3, ScaleInThreshold: p.FreeSlots()})
	require.Len(t, out.MigratedSessionIDs, 1)
	assert.Equal(t, us[1].ID, out.TargetUPFID)
	assert.Equal(t, 0, source.Count())
	assert.Equal(t, 3, us[1].Count())
}

func TestRegime3NoTargetWhenNoneFits(t *testing.T) {
	p, us := buildPool(2, 2, 2)
	// Source still has 2 sessions pending migration: with capacity 2 the
	// only other UPF, already holding 2, cannot take 2 more.
	source := us[0]
	out := Apply(p, source, Config{Regime: MigrateThreshold, Capacity: 2, ScaleInThreshold: -1})
	assert.Equal(t, -1, out.TargetUPFID)
	assert.Empty(t, out.MigratedSessionIDs)
	assert.Equal(t, 2, source.Count())
}

func TestRegime4DrainTriggersOnlyWhenEmpty(t *testing.T) {
	p, us := buildPool(5, 1, 0)
	source := us[0]
	out := Apply(p, source, Config{Regime: MigrateDrain, Capacity: 5})
	assert.Len(t, out.MigratedSessionIDs, 1)
	assert.True(t, out.ScaleInTrigger)
}

func TestRegime4NoDrainWhenMigrationFails(t *testing.T) {
	p, us := buildPool(1, 1, 1)
	source := us[0]
	out := Apply(p, source, Config{Regime: MigrateDrain, Capacity: 1})
	assert.Empty(t, out.MigratedSessionIDs)
	assert.False(t, out.ScaleInTrigger) // source still has its session
}

func TestRegime5And6Quarantine(t *testing.T) {
	p, us := buildPool(3, 1, 2)
	out := Apply(p, us[0], Config{Regime: QuarantineThreshold, Capacity: 3, ScaleInThreshold: p.FreeSlots()})
	assert.True(t, out.Quarantined)

	p2, us2 := buildPool(5, 1, 0)
	out2 := Apply(p2, us2[0], Config{Regime: QuarantineDrain, Capacity: 5})
	assert.True(t, out2.Quarantined)
	assert.True(t, out2.ScaleInTrigger)
}

func TestSelectTargetBreaksTiesByInsertionOrder(t *testing.T) {
	p, us := buildPool(5, 0, 2, 2)
	target := selectTarget(p, us[0], 5)
	assert.Equal(t, us[1].ID, target.ID)
}
