// Package model holds the wire-level types the simulation core hands to its
// collaborators: trace samples, the run summary, and the rejected/duration
// records. Serialization (CSV, JSON, plotting) is not this package's concern.
package model

// CounterSample is one observation of an integer-valued derived counter.
type CounterSample struct {
	TimeMS int64
	Value  int
}

// UtilizationSample is one observation of the real-valued utilization counter.
type UtilizationSample struct {
	TimeMS int64
	Value  float64
}

// RejectedSession records an arrival that could not be placed.
type RejectedSession struct {
	TimeMS    int64
	SessionID int
}

// SessionDuration records the sampled duration of a placed session.
type SessionDuration struct {
	SessionID       int
	DurationSeconds float64
}

// Trace is the full set of abstract streams the scheduler emits.
type Trace struct {
	PDUs                []CounterSample
	UPFs                []CounterSample
	ActivePDUs          []CounterSample
	FreeSlots           []CounterSample
	BusyUPFs            []CounterSample
	IdleUPFs            []CounterSample
	DeployedUPFs        []CounterSample
	Utilization         []UtilizationSample
	InterArrivalTimesMS []float64
	SessionDurations    []SessionDuration
	RejectedSessions    []RejectedSession
}

// Summary is the end-of-run accounting block.
type Summary struct {
	Total    int
	Rejected int
	Accepted int
	Deployed int
}

// Result is everything a run produces.
type Result struct {
	RunID   int
	Trace   Trace
	Summary Summary
}
