package domain

import "time"

// WalkConfig holds the walking animation parameters.
type WalkConfig struct {
	Speed       int
	FrameDelay  time.Duration
	PetWidth    int
	ScreenWidth int
}

// PetConfig collects every interval the companion runs on.
type PetConfig struct {
	SleepAfter           time.Duration
	MenuHideAfter        time.Duration
	BubbleHideAfter      time.Duration
	ReminderPollInterval time.Duration
	SnoozeFor            time.Duration
	Pomodoro             PomodoroConfig
	Walk                 WalkConfig
}

// DefaultPetConfig returns the stock timings.
func DefaultPetConfig() PetConfig {
	return PetConfig{
		SleepAfter:           30 * time.Second,
		MenuHideAfter:        10 * time.Second,
		ReminderPollInterval: 30 * time.Second,
		SnoozeFor:            5 * time.Minute,
		Pomodoro:             DefaultPomodoroConfig(),
		Walk: WalkConfig{
			Speed:       2,
			FrameDelay:  200 * time.Millisecond,
			PetWidth:    200,
			ScreenWidth: 1920,
		},
	}
}

// MaxX is the right-most position the pet may occupy.
func (w WalkConfig) MaxX() int {
	if w.ScreenWidth <= w.PetWidth {
		return 0
	}
	return w.ScreenWidth - w.PetWidth
}
