package gamepads

import (
	"fmt"
	"math"
)

// SnapshotType is the payload type tag sent with every snapshot.
const SnapshotType = "axis"

// ButtonNames maps the standard gamepad layout indices to button names.
var ButtonNames = map[int]string{
	0:  "BtnA",
	1:  "BtnB",
	2:  "BtnX",
	3:  "BtnY",
	4:  "BtnShoulderL",
	5:  "BtnShoulderR",
	6:  "TriggerL",
	7:  "TriggerR",
	8:  "BtnBack",
	9:  "BtnStart",
	10: "BtnThumbL",
	11: "BtnThumbR",
	12: "Dpad_Up",
	13: "Dpad_Down",
	14: "Dpad_Left",
	15: "Dpad_Right",
}

// ButtonName returns the name for a button index, or "Button<index>" when
// the index has no entry in ButtonNames.
func ButtonName(index int) string {
	if name, ok := ButtonNames[index]; ok {
		return name
	}
	return fmt.Sprintf("Button%d", index)
}

type Stick struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Axes struct {
	LeftStick  Stick `json:"left_stick"`
	RightStick Stick `json:"right_stick"`
}

type Button struct {
	Name    string  `json:"name"`
	Pressed bool    `json:"pressed"`
	Value   float64 `json:"value"`
	Index   int     `json:"index"`
}

// Snapshot is one reading of the full axis and button state of a gamepad.
// Snapshots are treated as values: never modify one after it has been
// handed to a Coalescer.
type Snapshot struct {
	Type    string   `json:"type"`
	Axes    Axes     `json:"axes"`
	Buttons []Button `json:"buttons"`
}

// Equal reports whether both snapshots hold the same values. Button order
// is significant.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Type != o.Type || !s.Axes.equal(o.Axes) || len(s.Buttons) != len(o.Buttons) {
		return false
	}
	for i := range s.Buttons {
		a, b := s.Buttons[i], o.Buttons[i]
		if a.Name != b.Name || a.Pressed != b.Pressed || a.Index != b.Index || !floatEqual(a.Value, b.Value) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Buttons != nil {
		c.Buttons = make([]Button, len(s.Buttons))
		copy(c.Buttons, s.Buttons)
	}
	return c
}

func (a Axes) equal(o Axes) bool {
	return a.LeftStick.equal(o.LeftStick) && a.RightStick.equal(o.RightStick)
}

func (s Stick) equal(o Stick) bool {
	return floatEqual(s.X, o.X) && floatEqual(s.Y, o.Y)
}

// floatEqual treats NaN as equal to itself.
func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// Payload is the envelope handed to a Transmitter.
type Payload struct {
	Snapshot
	ClientID  string  `json:"client_id,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}
