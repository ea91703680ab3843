package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func TestRegistry_ScheduleFiresAfterDelay(t *testing.T) {
	r := NewRegistry(epoch)
	fired := 0
	r.Schedule(SlotSleep, 30*time.Second, func() { fired++ })

	r.Advance(29 * time.Second)
	assert.Equal(t, 0, fired)
	assert.True(t, r.Pending(SlotSleep))

	r.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.False(t, r.Pending(SlotSleep))

	r.Advance(time.Hour)
	assert.Equal(t, 1, fired, "single-shot timers fire once")
}

func TestRegistry_RescheduleReplacesEarlierCallback(t *testing.T) {
	r := NewRegistry(epoch)
	var calls []string

	r.Schedule(SlotSleep, 10*time.Second, func() { calls = append(calls, "first") })
	r.Advance(5 * time.Second)
	r.Schedule(SlotSleep, 10*time.Second, func() { calls = append(calls, "second") })
	r.Schedule(SlotSleep, 10*time.Second, func() { calls = append(calls, "third") })

	r.Advance(time.Minute)
	assert.Equal(t, []string{"third"}, calls)
}

func TestRegistry_CancelIsIdempotent(t *testing.T) {
	r := NewRegistry(epoch)
	fired := false
	r.Schedule(SlotMenu, time.Second, func() { fired = true })

	r.Cancel(SlotMenu)
	r.Cancel(SlotMenu)
	r.Cancel(Slot("never-used"))
	r.Advance(time.Minute)

	assert.False(t, fired)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CancelAfterFireIsNoop(t *testing.T) {
	r := NewRegistry(epoch)
	count := 0
	r.Schedule(SlotMenu, time.Second, func() { count++ })
	r.Advance(time.Second)
	r.Cancel(SlotMenu)
	assert.Equal(t, 1, count)
}

func TestRegistry_CancelFromEarlierCallbackInSameAdvance(t *testing.T) {
	r := NewRegistry(epoch)
	laterFired := false

	r.Schedule(SlotSleep, 2*time.Second, func() { laterFired = true })
	r.Schedule(SlotMenu, time.Second, func() { r.Cancel(SlotSleep) })

	// Both deadlines have passed by the end of this advance.
	r.Advance(10 * time.Second)
	assert.False(t, laterFired)
}

func TestRegistry_SameDeadlineFiresInRegistrationOrder(t *testing.T) {
	r := NewRegistry(epoch)
	var order []Slot
	for _, slot := range []Slot{SlotReminderPoll, SlotSleep, SlotMenu} {
		slot := slot
		r.Schedule(slot, time.Second, func() { order = append(order, slot) })
	}

	r.Advance(time.Second)
	assert.Equal(t, []Slot{SlotReminderPoll, SlotSleep, SlotMenu}, order)
}

func TestRegistry_DeadlineOrder(t *testing.T) {
	r := NewRegistry(epoch)
	var order []Slot
	r.Schedule(SlotSleep, 3*time.Second, func() { order = append(order, SlotSleep) })
	r.Schedule(SlotMenu, time.Second, func() { order = append(order, SlotMenu) })
	r.Schedule(SlotBubble, 2*time.Second, func() { order = append(order, SlotBubble) })

	r.Advance(5 * time.Second)
	assert.Equal(t, []Slot{SlotMenu, SlotBubble, SlotSleep}, order)
}

func TestRegistry_EveryRepeatsUntilCancelled(t *testing.T) {
	r := NewRegistry(epoch)
	var at []time.Duration
	r.Every(SlotPomodoroTick, time.Second, func() {
		at = append(at, r.Now().Sub(epoch))
		if len(at) == 3 {
			r.Cancel(SlotPomodoroTick)
		}
	})

	r.Advance(10 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, at)
	assert.False(t, r.Pending(SlotPomodoroTick))
}

func TestRegistry_EveryReplacedFromOwnCallback(t *testing.T) {
	r := NewRegistry(epoch)
	oldTicks, newTicks := 0, 0
	r.Every(SlotWalkTick, time.Second, func() {
		oldTicks++
		r.Every(SlotWalkTick, 5*time.Second, func() { newTicks++ })
	})

	r.Advance(11 * time.Second)
	assert.Equal(t, 1, oldTicks)
	assert.Equal(t, 2, newTicks)
}

func TestRegistry_CallbackSeesDeadlineInStep(t *testing.T) {
	r := NewRegistry(epoch)
	var seen []time.Time
	r.Every(SlotReminderPoll, 30*time.Second, func() { seen = append(seen, r.Now()) })

	r.Advance(30 * time.Second)
	r.Advance(30 * time.Second)
	assert.Equal(t, []time.Time{epoch.Add(30 * time.Second), epoch.Add(time.Minute)}, seen)
}

func TestRegistry_MissedDeadlinesSeeWallTime(t *testing.T) {
	r := NewRegistry(epoch)
	var seen []time.Time
	r.Every(SlotReminderPoll, 30*time.Second, func() { seen = append(seen, r.Now()) })

	// the machine slept through three polls
	wake := epoch.Add(95 * time.Second)
	r.AdvanceTo(wake)

	require.Len(t, seen, 3)
	for _, at := range seen {
		assert.Equal(t, wake, at)
	}
	assert.Equal(t, wake, r.Now())

	next, ok := r.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(2*time.Minute), next, "recurring deadlines keep their cadence")
}

func TestRegistry_ScheduleFromLateCallbackKeepsDeadlineBase(t *testing.T) {
	r := NewRegistry(epoch)
	var fired []time.Time
	r.Schedule(SlotSleep, 30*time.Second, func() {
		r.Schedule(SlotBubble, 10*time.Second, func() { fired = append(fired, r.Now()) })
	})

	r.AdvanceTo(epoch.Add(time.Hour))
	assert.Equal(t, []time.Time{epoch.Add(time.Hour)}, fired)
	assert.False(t, r.Pending(SlotBubble))
}

func TestRegistry_ClockNeverMovesBackwards(t *testing.T) {
	r := NewRegistry(epoch)
	r.AdvanceTo(epoch.Add(-time.Hour))
	assert.Equal(t, epoch, r.Now())
}

func TestHandle_CancelOnlyAffectsItsOwnTimer(t *testing.T) {
	r := NewRegistry(epoch)
	fired := ""
	stale := r.Schedule(SlotSleep, time.Second, func() { fired = "stale" })
	require.True(t, stale.Active())

	r.Schedule(SlotSleep, time.Second, func() { fired = "current" })
	assert.False(t, stale.Active())

	stale.Cancel()
	r.Advance(time.Second)
	assert.Equal(t, "current", fired)
}

func TestRegistry_NextDeadline(t *testing.T) {
	r := NewRegistry(epoch)
	_, ok := r.NextDeadline()
	assert.False(t, ok)

	r.Schedule(SlotSleep, 30*time.Second, func() {})
	r.Schedule(SlotMenu, 10*time.Second, func() {})
	next, ok := r.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(10*time.Second), next)

	r.Cancel(SlotMenu)
	next, _ = r.NextDeadline()
	assert.Equal(t, epoch.Add(30*time.Second), next)
}
