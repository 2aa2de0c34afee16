package gamepads

// Sample reads the first connected pad and builds a Snapshot from it. The
// second return value is false when no pad is connected.
func Sample(p Poller) (Snapshot, bool) {
	var pad *Pad
	for _, candidate := range p.Poll() {
		if candidate != nil {
			pad = candidate
			break
		}
	}
	if pad == nil {
		return Snapshot{}, false
	}

	s := Snapshot{
		Type: SnapshotType,
		Axes: Axes{
			LeftStick:  Stick{X: axisAt(pad.Axes, 0), Y: axisAt(pad.Axes, 1)},
			RightStick: Stick{X: axisAt(pad.Axes, 2), Y: axisAt(pad.Axes, 3)},
		},
		Buttons: make([]Button, len(pad.Buttons)),
	}
	for i, b := range pad.Buttons {
		s.Buttons[i] = Button{
			Name:    ButtonName(i),
			Pressed: b.Pressed,
			Value:   b.Value,
			Index:   i,
		}
	}
	return s, true
}

func axisAt(axes []float64, i int) float64 {
	if i < len(axes) {
		return axes[i]
	}
	return 0
}
