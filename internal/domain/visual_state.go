package domain

// VisualState is the pose the pet is currently displayed in.
type VisualState string

const (
	StateNormal       VisualState = "normal"
	StateHover        VisualState = "hover"
	StateSleep        VisualState = "sleep"
	StateWalk1        VisualState = "walk1"
	StateWalk1Flipped VisualState = "walk1_flipped"
	StateWalk2        VisualState = "walk2"
	StateWalk2Flipped VisualState = "walk2_flipped"
	StateWork         VisualState = "work"
	StateBreak        VisualState = "break"
	StateLongBreak    VisualState = "long_break"
)

// AllVisualStates lists every pose in declaration order.
var AllVisualStates = []VisualState{
	StateNormal, StateHover, StateSleep,
	StateWalk1, StateWalk1Flipped, StateWalk2, StateWalk2Flipped,
	StateWork, StateBreak, StateLongBreak,
}

// IsValid reports whether the state is one of the known poses.
func (s VisualState) IsValid() bool {
	for _, known := range AllVisualStates {
		if s == known {
			return true
		}
	}
	return false
}

// IsWalking returns true for any of the walk animation frames.
func (s VisualState) IsWalking() bool {
	switch s {
	case StateWalk1, StateWalk1Flipped, StateWalk2, StateWalk2Flipped:
		return true
	default:
		return false
	}
}

// WalkFrame returns the walk pose for a frame parity (1 or 2) and direction.
func WalkFrame(parity int, direction int) VisualState {
	if parity == 2 {
		if direction < 0 {
			return StateWalk2Flipped
		}
		return StateWalk2
	}
	if direction < 0 {
		return StateWalk1Flipped
	}
	return StateWalk1
}

// MenuState describes the toggles shown in the action menu.
type MenuState struct {
	PomodoroActive bool
	Walking        bool
}
