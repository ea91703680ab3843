package tui

import "github.com/xvierd/desk-pet/internal/domain"

// spriteWidth is the column width of every sprite frame.
const spriteWidth = 9

// sprites holds one 3-line frame per pose, each line spriteWidth wide.
var sprites = map[domain.VisualState][3]string{
	domain.StateNormal:       {"  /\\_/\\  ", " ( o.o ) ", "  > ^ <  "},
	domain.StateHover:        {"  /\\_/\\  ", " ( ^.^ ) ", "  > ♥ <  "},
	domain.StateSleep:        {"  /\\_/\\ z", " ( -.- ) ", "  (___)  "},
	domain.StateWalk1:        {"  /\\_/\\  ", " (  o.o) ", "  /   \\  "},
	domain.StateWalk2:        {"  /\\_/\\  ", " (  o.o) ", "   | |   "},
	domain.StateWalk1Flipped: {"  /\\_/\\  ", " (o.o  ) ", "  /   \\  "},
	domain.StateWalk2Flipped: {"  /\\_/\\  ", " (o.o  ) ", "   | |   "},
	domain.StateWork:         {"  /\\_/\\  ", " ( •_• ) ", "  [___]  "},
	domain.StateBreak:        {"  /\\_/\\  ", " ( ~.~ ) ", "  c[_]   "},
	domain.StateLongBreak:    {"  /\\_/\\  ", " ( ˘ω˘ ) ", "  c[_]~  "},
}

// sprite returns the frame for a pose, falling back to the normal pose.
func sprite(state domain.VisualState) [3]string {
	if frame, ok := sprites[state]; ok {
		return frame
	}
	return sprites[domain.StateNormal]
}
