// Package eventqueue implements C2: a min-heap of simulation events keyed
// by (time, insertion order), giving O(log n) push/pop and a stable FIFO
// tie-break between events that share a timestamp.
package eventqueue

import "container/heap"

// Kind tags what a popped Event means to the scheduler.
type Kind int

const (
	// Arrival is a PDU session generation event.
	Arrival Kind = iota
	// Termination is a PDU session end event. It carries no session
	// reference — the scheduler locates the matching session by
	// end-time equality across the pool.
	Termination
)

// Event is a scheduled point in virtual time.
type Event struct {
	Kind Kind
	Time int64
	seq  uint64
}

type heapSlice []*Event

func (h heapSlice) Len() int { return len(h) }
func (h heapSlice) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].seq < h[j].seq
}
func (h heapSlice) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *heapSlice) Push(x any)   { *h = append(*h, x.(*Event)) }
func (h *heapSlice) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue is the scheduler's event heap.
type Queue struct {
	items heapSlice
	seq   uint64
}

// New returns an empty Queue.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.items)
	return q
}

// Push schedules an event of the given kind at the given time and returns
// it. Events pushed earlier at an equal time are popped first.
func (q *Queue) Push(kind Kind, t int64) *Event {
	e := &Event{Kind: kind, Time: t, seq: q.seq}
	q.seq++
	heap.Push(&q.items, e)
	return e
}

// Pop removes and returns the earliest event, or (nil, false) if empty.
func (q *Queue) Pop() (*Event, bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.items).(*Event), true
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return q.items.Len() }
