package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/timer"
)

func TestIdleTracker_SleepsAfterInactivity(t *testing.T) {
	f := newFixture(t)
	f.companion.Start()

	f.advance(29 * time.Second)
	assert.Equal(t, domain.StateNormal, f.companion.visual.Current())

	f.advance(time.Second)
	assert.Equal(t, domain.StateSleep, f.companion.visual.Current())
	assert.True(t, f.companion.idle.Asleep())
}

func TestIdleTracker_ActivityPushesDeadline(t *testing.T) {
	f := newFixture(t)
	f.companion.Start()

	f.advance(20 * time.Second)
	f.companion.PointerEnter()
	f.advance(20 * time.Second)
	f.companion.PointerLeave()

	f.advance(29 * time.Second)
	assert.NotEqual(t, domain.StateSleep, f.companion.visual.Current())

	f.advance(time.Second)
	assert.Equal(t, domain.StateSleep, f.companion.visual.Current())
	assert.Equal(t, 1, countState(f.sink, domain.StateSleep))
}

func TestIdleTracker_PointerEnterWakes(t *testing.T) {
	f := newFixture(t)
	_, err := f.companion.AddReminder("Stand up", epoch.Add(time.Hour))
	require.NoError(t, err)
	f.companion.Start()
	f.advance(30 * time.Second)
	require.Equal(t, domain.StateSleep, f.companion.visual.Current())

	f.sink.reset()
	f.companion.PointerEnter()

	assert.Equal(t, domain.StateHover, f.companion.visual.Current())
	assert.Equal(t, []string{"Stand up"}, f.sink.values("bubble_show"))
	assert.True(t, f.registry.Pending(timer.SlotSleep))
}

func TestIdleTracker_PointerLeaveWhileAsleepStaysAsleep(t *testing.T) {
	f := newFixture(t)
	f.companion.Start()
	f.advance(30 * time.Second)

	f.sink.reset()
	f.companion.PointerLeave()
	assert.Equal(t, domain.StateSleep, f.companion.visual.Current())
	assert.Empty(t, f.sink.values("state"))
}

func TestIdleTracker_PointerLeaveHidesBubble(t *testing.T) {
	f := newFixture(t)
	_, err := f.companion.AddReminder("Stand up", epoch.Add(time.Hour))
	require.NoError(t, err)
	f.companion.Start()

	f.companion.PointerEnter()
	require.True(t, f.companion.visual.BubbleVisible())

	f.companion.PointerLeave()
	assert.Equal(t, domain.StateNormal, f.companion.visual.Current())
	assert.False(t, f.companion.visual.BubbleVisible())
}

func TestIdleTracker_DragStart(t *testing.T) {
	f := newFixture(t)
	f.companion.Start()
	f.advance(30 * time.Second)

	f.companion.DragStart()
	assert.Equal(t, domain.StateNormal, f.companion.visual.Current())

	f.advance(29 * time.Second)
	assert.Equal(t, domain.StateNormal, f.companion.visual.Current())
	f.advance(time.Second)
	assert.Equal(t, domain.StateSleep, f.companion.visual.Current())
}

func TestIdleTracker_SleepHidesBubble(t *testing.T) {
	f := newFixture(t)
	_, err := f.companion.AddReminder("Stand up", epoch.Add(time.Hour))
	require.NoError(t, err)
	f.companion.Start()
	f.companion.PointerEnter()

	f.advance(30 * time.Second)
	assert.Equal(t, domain.StateSleep, f.companion.visual.Current())
	assert.False(t, f.companion.visual.BubbleVisible())
	assert.Equal(t, 1, f.sink.count("bubble_hide"))
}

func countState(sink *recordingSink, state domain.VisualState) int {
	n := 0
	for _, v := range sink.values("state") {
		if v == string(state) {
			n++
		}
	}
	return n
}
