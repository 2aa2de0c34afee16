package gamepads

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Display renders a snapshot that was accepted by the server.
type Display interface {
	Show(s Snapshot)
}

// TextDisplay writes each shown snapshot as plain text.
type TextDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextDisplay(w io.Writer) *TextDisplay {
	return &TextDisplay{w: w}
}

func (d *TextDisplay) Show(s Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = io.WriteString(d.w, FormatSnapshot(s))
}

// FormatSnapshot renders axes with two decimals followed by one line per button.
func FormatSnapshot(s Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "left stick: %.2f %.2f\n", s.Axes.LeftStick.X, s.Axes.LeftStick.Y)
	fmt.Fprintf(&b, "right stick: %.2f %.2f\n", s.Axes.RightStick.X, s.Axes.RightStick.Y)
	for _, btn := range s.Buttons {
		state := "released"
		if btn.Pressed {
			state = "pressed"
		}
		fmt.Fprintf(&b, "%s %s (%.2f)\n", btn.Name, state, btn.Value)
	}
	return b.String()
}
