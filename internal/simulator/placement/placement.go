// Package placement implements C4: choosing which UPF instance hosts an
// incoming PDU session, under one of three admission rules, plus the
// throughput-variant capacity filter.
package placement

import "github.com/your-org/upfsim/internal/simulator/pool"

// Case selects the admission rule.
type Case int

const (
	// FirstFit picks the first UPF in pool order with a free slot.
	FirstFit Case = 1
	// LeastLoaded picks uniformly among the UPFs with the lowest session count.
	LeastLoaded Case = 2
	// MostLoaded picks uniformly among the UPFs with the highest session count.
	MostLoaded Case = 3
)

// Chooser draws a uniform index in [0, n); satisfied by *rng.Source.
type Chooser interface {
	UniformChoice(n int) int
}

// Select returns the UPF chosen under upfCase among instances with spare
// capacity (and, when throughputEnabled, spare throughput for demand), or
// (nil, false) if none qualifies.
func Select(p *pool.Pool, upfCase Case, chooser Chooser, demand float64, throughputEnabled bool) (*pool.UPF, bool) {
	candidates := make([]*pool.UPF, 0, len(p.Instances))
	for _, u := range p.Instances {
		if !u.HasFreeSlot() {
			continue
		}
		if throughputEnabled && !u.HasThroughputCapacity(demand) {
			continue
		}
		candidates = append(candidates, u)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	switch upfCase {
	case FirstFit:
		return candidates[0], true
	case LeastLoaded:
		return pickExtremal(candidates, chooser, func(a, b int) bool { return a < b })
	case MostLoaded:
		return pickExtremal(candidates, chooser, func(a, b int) bool { return a > b })
	default:
		return nil, false
	}
}

// pickExtremal finds the candidates whose Count() is "better" than all
// others per the better(a, b) ordering, then breaks ties uniformly at
// random, matching the Python original's get_upf_with_lowest/highest_sessions.
func pickExtremal(candidates []*pool.UPF, chooser Chooser, better func(a, b int) bool) (*pool.UPF, bool) {
	best := candidates[0].Count()
	for _, u := range candidates[1:] {
		if better(u.Count(), best) {
			best = u.Count()
		}
	}
	var tied []*pool.UPF
	for _, u := range candidates {
		if u.Count() == best {
			tied = append(tied, u)
		}
	}
	return tied[chooser.UniformChoice(len(tied))], true
}
