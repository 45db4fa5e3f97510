// Package migration implements C6: the six session-migration regimes
// applied immediately after a session terminates on a UPF, and the
// case-specific scale-in trigger condition each regime pairs with.
//
// Migration is best-effort and single-target: all of a source UPF's
// remaining sessions move to one chosen target, and only if the combined
// count fits within capacity. Target selection sorts the pool by
// descending session count and picks the first admissible target other
// than the source; ties are broken by insertion order (not randomized),
// because regression tests depend on that stability.
package migration

import (
	"sort"

	"github.com/your-org/upfsim/internal/simulator/pool"
)

// Regime selects the migration/scale-in case.
type Regime int

const (
	NoMigrateThreshold     Regime = 1 // no migration; scale-in at free_slots == T2
	NoMigrateUnconditional Regime = 2 // no migration; unconditional scale-in
	MigrateThreshold       Regime = 3 // migrate; scale-in at free_slots == T2
	MigrateDrain           Regime = 4 // migrate; scale-in once source is empty
	QuarantineThreshold    Regime = 5 // migrate + quarantine source; scale-in at free_slots == T2
	QuarantineDrain        Regime = 6 // migrate + quarantine source; scale-in once source is empty
)

// Config carries the parameters a migration decision needs.
type Config struct {
	Regime           Regime
	Capacity         int
	ScaleInThreshold int
}

// Outcome reports what a migration step did, for logging and tests.
type Outcome struct {
	MigratedSessionIDs []int
	TargetUPFID        int // -1 if no migration target was found
	Quarantined        bool
	ScaleInTrigger     bool
}

// Apply runs the regime selected by cfg.Regime against source, which has
// just lost a session (the caller has already removed it from source).
// It does not itself call scale.In — it reports whether the case-specific
// trigger fired; the min-instances envelope guard lives in scale.In.
func Apply(p *pool.Pool, source *pool.UPF, cfg Config) Outcome {
	out := Outcome{TargetUPFID: -1}

	migrates := cfg.Regime == MigrateThreshold || cfg.Regime == MigrateDrain ||
		cfg.Regime == QuarantineThreshold || cfg.Regime == QuarantineDrain
	if migrates {
		if target := selectTarget(p, source, cfg.Capacity); target != nil {
			for _, s := range append([]*pool.Session(nil), source.Sessions()...) {
				target.Add(s)
				source.Remove(s)
				out.MigratedSessionIDs = append(out.MigratedSessionIDs, s.ID)
			}
			out.TargetUPFID = target.ID
			if cfg.Regime == QuarantineThreshold || cfg.Regime == QuarantineDrain {
				// The source is marked to reject further arrivals for the
				// remainder of this termination step. Since the step ends
				// with source being scaled in immediately after (when the
				// trigger below fires), the quarantine has no further
				// observable effect — preserved literally per spec, not
				// extended into a longer-lived reservation.
				out.Quarantined = true
			}
		}
	}

	switch cfg.Regime {
	case NoMigrateThreshold, MigrateThreshold, QuarantineThreshold:
		out.ScaleInTrigger = p.FreeSlots() == cfg.ScaleInThreshold
	case NoMigrateUnconditional:
		out.ScaleInTrigger = true
	case MigrateDrain, QuarantineDrain:
		out.ScaleInTrigger = source.Count() == 0
	}
	return out
}

// selectTarget sorts the pool by descending session count (stable, so ties
// keep insertion order) and returns the first UPF other than source whose
// combined session count with source fits within capacity.
func selectTarget(p *pool.Pool, source *pool.UPF, capacity int) *pool.UPF {
	sorted := make([]*pool.UPF, len(p.Instances))
	copy(sorted, p.Instances)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count() > sorted[j].Count() })

	for _, candidate := range sorted {
		if candidate == source {
			continue
		}
		if candidate.Count()+source.Count() <= capacity {
			return candidate
		}
	}
	return nil
}
