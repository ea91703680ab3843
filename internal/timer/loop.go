package timer

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped is returned by Call once the loop has exited.
var ErrLoopStopped = errors.New("timer: loop stopped")

// Loop drives a Registry in real time on a single goroutine. Work from
// other goroutines enters through Post or Call and runs on that goroutine.
type Loop struct {
	registry *Registry
	now      func() time.Time
	posts    chan func()
	done     chan struct{}
}

// NewLoop creates a loop around a fresh registry clocked by time.Now.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 1
	}
	return &Loop{
		registry: NewRegistry(time.Now()),
		now:      time.Now,
		posts:    make(chan func(), buffer),
		done:     make(chan struct{}),
	}
}

// Registry returns the registry owned by the loop. Only touch it from
// callbacks running on the loop.
func (l *Loop) Registry() *Registry {
	return l.registry
}

// Run processes timers and posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	var timer *time.Timer
	defer func() { stopTimer(timer) }()

	for {
		l.registry.AdvanceTo(l.now())

		var fire <-chan time.Time
		if next, ok := l.registry.NextDeadline(); ok {
			wait := next.Sub(l.now())
			if wait < 0 {
				wait = 0
			}
			timer = resetTimer(timer, wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			l.registry.CancelAll()
			return ctx.Err()
		case fn := <-l.posts:
			l.registry.AdvanceTo(l.now())
			fn()
		case <-fire:
		}
	}
}

// Post queues fn to run on the loop. It reports false if the loop is gone.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.posts <- fn:
		return true
	}
}

// Call runs fn on the loop and waits for it to finish.
// It must not be called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	case l.posts <- wrapped:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	case <-finished:
		return nil
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
