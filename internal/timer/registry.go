// Package timer provides the single-threaded timer registry and the event
// loop that drives it. Every callback runs on one logical thread; a slot
// holds at most one live timer.
package timer

import (
	"container/heap"
	"time"
)

// Slot is a named timer identity.
type Slot string

const (
	SlotSleep        Slot = "sleep"
	SlotMenu         Slot = "popup"
	SlotBubble       Slot = "bubble"
	SlotPomodoroTick Slot = "pomodoro-tick"
	SlotWalkTick     Slot = "walk-tick"
	SlotReminderPoll Slot = "reminder-poll"
)

type entry struct {
	id        uint64
	slot      Slot
	deadline  time.Time
	seq       uint64
	interval  time.Duration
	fn        func()
	cancelled bool
	index     int
}

type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q entryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *entryQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Handle identifies one scheduled callback.
type Handle struct {
	registry *Registry
	slot     Slot
	id       uint64
}

// Slot returns the slot the handle was registered under.
func (h Handle) Slot() Slot {
	return h.slot
}

// Active reports whether the callback can still fire.
func (h Handle) Active() bool {
	if h.registry == nil {
		return false
	}
	e, ok := h.registry.slots[h.slot]
	return ok && e.id == h.id && !e.cancelled
}

// Cancel stops the callback if the slot still holds this handle.
func (h Handle) Cancel() {
	if h.Active() {
		h.registry.Cancel(h.slot)
	}
}

// Registry is a deterministic timer queue on a virtual clock.
// It is not safe for concurrent use; drive it from one goroutine.
type Registry struct {
	now    time.Time
	wall   time.Time
	queue  entryQueue
	slots  map[Slot]*entry
	nextID uint64
	seq    uint64
}

// NewRegistry creates a registry whose clock starts at start.
func NewRegistry(start time.Time) *Registry {
	return &Registry{
		now:   start,
		slots: make(map[Slot]*entry),
	}
}

// Now returns the registry's current time. While AdvanceTo is catching up
// on missed deadlines, callbacks see the time being advanced to, not the
// deadline they were due at.
func (r *Registry) Now() time.Time {
	if r.wall.After(r.now) {
		return r.wall
	}
	return r.now
}

// Schedule runs fn once after delay. Any timer already in slot is cancelled.
func (r *Registry) Schedule(slot Slot, delay time.Duration, fn func()) Handle {
	return r.add(slot, delay, 0, fn)
}

// Every runs fn each interval until the slot is cancelled or replaced.
func (r *Registry) Every(slot Slot, interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return r.add(slot, interval, interval, fn)
}

func (r *Registry) add(slot Slot, delay, interval time.Duration, fn func()) Handle {
	r.Cancel(slot)
	if delay < 0 {
		delay = 0
	}
	r.nextID++
	r.seq++
	e := &entry{
		id:       r.nextID,
		slot:     slot,
		deadline: r.now.Add(delay),
		seq:      r.seq,
		interval: interval,
		fn:       fn,
	}
	r.slots[slot] = e
	heap.Push(&r.queue, e)
	return Handle{registry: r, slot: slot, id: e.id}
}

// Cancel stops whatever is scheduled in slot. Unknown slots are a no-op.
func (r *Registry) Cancel(slot Slot) {
	e, ok := r.slots[slot]
	if !ok {
		return
	}
	delete(r.slots, slot)
	e.cancelled = true
	if e.index >= 0 {
		heap.Remove(&r.queue, e.index)
	}
}

// CancelAll stops every scheduled timer.
func (r *Registry) CancelAll() {
	for slot := range r.slots {
		r.Cancel(slot)
	}
}

// Pending reports whether slot holds a live timer.
func (r *Registry) Pending(slot Slot) bool {
	_, ok := r.slots[slot]
	return ok
}

// Len returns the number of live timers.
func (r *Registry) Len() int {
	return len(r.slots)
}

// NextDeadline returns the earliest deadline among live timers.
func (r *Registry) NextDeadline() (time.Time, bool) {
	if len(r.queue) == 0 {
		return time.Time{}, false
	}
	return r.queue[0].deadline, true
}

// Advance moves the clock forward by d, firing everything that falls due.
func (r *Registry) Advance(d time.Duration) {
	r.AdvanceTo(r.now.Add(d))
}

// AdvanceTo fires every timer whose deadline is at or before t, in deadline
// order, then leaves the clock at t. The clock never moves backwards.
// Timers scheduled from a callback are still placed relative to the
// deadline being fired.
func (r *Registry) AdvanceTo(t time.Time) {
	if t.After(r.wall) {
		r.wall = t
	}
	for len(r.queue) > 0 {
		next := r.queue[0]
		if next.deadline.After(t) {
			break
		}
		heap.Pop(&r.queue)
		if next.deadline.After(r.now) {
			r.now = next.deadline
		}
		r.fire(next)
	}
	if t.After(r.now) {
		r.now = t
	}
}

func (r *Registry) fire(e *entry) {
	if e.cancelled {
		return
	}
	if e.interval == 0 {
		delete(r.slots, e.slot)
		e.fn()
		return
	}

	e.fn()

	// The callback may have cancelled or replaced its own slot.
	if e.cancelled || r.slots[e.slot] != e {
		return
	}
	r.seq++
	e.seq = r.seq
	e.deadline = e.deadline.Add(e.interval)
	heap.Push(&r.queue, e)
}
