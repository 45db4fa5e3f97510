// Package pool implements C3: the PDU session data model and the ordered
// collection of UPF instances that host sessions. Capacity limits are
// enforced by callers (placement, scale), not by UPF itself, per spec.
//
// The pool is owned by exactly one goroutine — the scheduler — for the
// whole of a run, so unlike the teacher's UPFContext
// (nf/upf/internal/context/upf_session.go) it carries no mutex: there is
// no concurrent access to guard against.
package pool

// Session is an immutable (after construction) PDU session.
type Session struct {
	ID         int
	StartTime  int64 // ms, quantized to the millisecond grid
	Duration   int64 // ms
	EndTime    int64 // ms
	Throughput float64
}

// UPF is a compute instance hosting zero or more sessions.
type UPF struct {
	ID                 int
	Capacity           int
	ThroughputCapacity float64 // 0 disables the throughput-variant filter
	CurrentThroughput  float64

	sessions []*Session
}

// NewUPF constructs a UPF with no bound sessions.
func NewUPF(id, capacity int, throughputCapacity float64) *UPF {
	return &UPF{ID: id, Capacity: capacity, ThroughputCapacity: throughputCapacity}
}

// Add binds a session to this UPF.
func (u *UPF) Add(s *Session) {
	u.sessions = append(u.sessions, s)
	u.CurrentThroughput += s.Throughput
}

// Remove unbinds a session from this UPF by identity. Reports whether the
// session was found.
func (u *UPF) Remove(s *Session) bool {
	for i, x := range u.sessions {
		if x == s {
			u.sessions = append(u.sessions[:i], u.sessions[i+1:]...)
			u.CurrentThroughput -= s.Throughput
			return true
		}
	}
	return false
}

// Count returns the number of sessions currently bound.
func (u *UPF) Count() int { return len(u.sessions) }

// IsBusy reports whether the UPF hosts at least one session.
func (u *UPF) IsBusy() bool { return len(u.sessions) > 0 }

// HasFreeSlot reports whether another session fits under the capacity limit.
func (u *UPF) HasFreeSlot() bool { return len(u.sessions) < u.Capacity }

// HasThroughputCapacity reports whether demand fits within the throughput
// envelope. When ThroughputCapacity is 0 (throughput variant disabled) this
// is always true.
func (u *UPF) HasThroughputCapacity(demand float64) bool {
	if u.ThroughputCapacity <= 0 {
		return true
	}
	return u.CurrentThroughput+demand <= u.ThroughputCapacity
}

// Sessions returns the sessions currently bound, in insertion order. The
// caller must not retain the slice across a subsequent Add/Remove.
func (u *UPF) Sessions() []*Session { return u.sessions }

// Pool is the ordered collection of live UPF instances.
type Pool struct {
	Instances []*UPF
	NextUPFID int
}

// New returns an empty pool.
func New() *Pool { return &Pool{} }

// AppendUPF adds u to the end of the pool. Envelope checks (max/min
// instance counts) are the scale controller's responsibility, not the
// pool's — mirrors "capacity enforced by callers" for UPF.Capacity.
func (p *Pool) AppendUPF(u *UPF) { p.Instances = append(p.Instances, u) }

// RemoveUPF removes u from the pool by identity, preserving the relative
// order of the rest. Reports whether u was found.
func (p *Pool) RemoveUPF(u *UPF) bool {
	for i, x := range p.Instances {
		if x == u {
			p.Instances = append(p.Instances[:i], p.Instances[i+1:]...)
			return true
		}
	}
	return false
}

// NumUPFs returns the current pool size.
func (p *Pool) NumUPFs() int { return len(p.Instances) }

// ActiveSessions returns the total number of bound sessions across the pool.
func (p *Pool) ActiveSessions() int {
	n := 0
	for _, u := range p.Instances {
		n += u.Count()
	}
	return n
}

// FreeSlots returns the total unused capacity across the pool.
func (p *Pool) FreeSlots() int {
	n := 0
	for _, u := range p.Instances {
		n += u.Capacity - u.Count()
	}
	return n
}

// BusyUPFs returns the number of instances with at least one session.
func (p *Pool) BusyUPFs() int {
	n := 0
	for _, u := range p.Instances {
		if u.IsBusy() {
			n++
		}
	}
	return n
}

// IdleUPFs returns the number of instances with no sessions.
func (p *Pool) IdleUPFs() int { return p.NumUPFs() - p.BusyUPFs() }

// FindSessionByEndTime locates the unique session whose EndTime equals t,
// scanning the pool in order. This is the termination-event lookup of
// spec §4.8: O(num_upfs * C), acceptable at the envelope sizes this
// simulator targets. Returns (nil, nil) if none matches.
func (p *Pool) FindSessionByEndTime(t int64) (*Session, *UPF) {
	for _, u := range p.Instances {
		for _, s := range u.sessions {
			if s.EndTime == t {
				return s, u
			}
		}
	}
	return nil, nil
}
