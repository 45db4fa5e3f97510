// Package scale implements C5: launching and retiring UPF instances
// subject to the global min/max instance-count envelope.
package scale

import (
	"errors"

	"github.com/your-org/upfsim/internal/simulator/pool"
)

// ErrAtMaxUPFs is returned when ScaleOut is attempted at the envelope ceiling.
var ErrAtMaxUPFs = errors.New("scale: pool already at max_upfs")

// ErrBelowMinUPFs is returned when ScaleIn would breach the envelope floor.
var ErrBelowMinUPFs = errors.New("scale: scale-in would breach min_upfs")

// ErrUPFNotFound is returned when the target UPF is not a member of the pool.
var ErrUPFNotFound = errors.New("scale: UPF not found in pool")

// Config carries the envelope and per-instance parameters the controller
// needs; it does not carry the scale-out/scale-in thresholds, which are
// migration/placement decisions, not scale mechanics.
type Config struct {
	MaxUPFs            int
	MinUPFs            int
	Capacity           int
	ThroughputCapacity float64
}

// Out launches a new UPF instance with id pool.NextUPFID, appends it, and
// increments NextUPFID. Valid only while NumUPFs < MaxUPFs.
func Out(p *pool.Pool, cfg Config) (*pool.UPF, error) {
	if p.NumUPFs() >= cfg.MaxUPFs {
		return nil, ErrAtMaxUPFs
	}
	u := pool.NewUPF(p.NextUPFID, cfg.Capacity, cfg.ThroughputCapacity)
	p.NextUPFID++
	p.AppendUPF(u)
	return u, nil
}

// In retires u from the pool. Valid only while NumUPFs >= MinUPFs+1; the
// instance retired is always the caller's choice (the scheduler passes the
// UPF whose last session just terminated or was migrated away), never an
// arbitrary idle instance picked here.
func In(p *pool.Pool, u *pool.UPF, cfg Config) error {
	if p.NumUPFs() < cfg.MinUPFs+1 {
		return ErrBelowMinUPFs
	}
	if !p.RemoveUPF(u) {
		return ErrUPFNotFound
	}
	return nil
}
