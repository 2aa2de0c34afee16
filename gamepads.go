package gamepads

// Gamepad holds information of a gamepad
type Gamepad struct {
	ID      string
	Model   string
	Buttons int
	Axes    int
}

// PadButton is the raw reading of one button.
type PadButton struct {
	Pressed bool
	Value   float64
}

// Pad is the raw reading of one connected device. Axis values are
// normalized to [-1, 1], button values to [0, 1].
type Pad struct {
	Axes    []float64
	Buttons []PadButton
}

// Poller exposes the devices currently connected. Nil entries are empty slots.
type Poller interface {
	Poll() []*Pad
}

// PollerFunc adapts a function to the Poller interface.
type PollerFunc func() []*Pad

func (f PollerFunc) Poll() []*Pad {
	return f()
}

// normalizeAxis maps a raw signed 16 bit axis reading to [-1, 1].
func normalizeAxis(v int) float64 {
	f := float64(v) / 32767
	switch {
	case f > 1:
		return 1
	case f < -1:
		return -1
	}
	return f
}
