package gamepads

import (
	"encoding/binary"
	"io"
	"sync"
)

// eventLinux mirrors struct js_event from linux/joystick.h.
type eventLinux struct {
	Timestamp uint32
	Value     int16
	Type      uint8
	Index     uint8
}

// readControlEvent reads one js_event record from r.
func readControlEvent(r io.Reader) (ControlEvent, error) {
	var e eventLinux
	if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
		return ControlEvent{}, err
	}
	return ControlEvent{
		Timestamp: e.Timestamp,
		Type:      ControlType(e.Type),
		Index:     int(e.Index),
		Value:     e.Value,
	}, nil
}

// padState is the live state of one device, fed by control events.
type padState struct {
	sync.RWMutex
	axes    []float64
	buttons []PadButton
}

func newPadState(axes, buttons int) *padState {
	return &padState{
		axes:    make([]float64, axes),
		buttons: make([]PadButton, buttons),
	}
}

// apply updates the state with e. Events for indices outside the reported
// axis or button count are ignored.
func (s *padState) apply(e ControlEvent) {
	s.Lock()
	defer s.Unlock()

	switch e.Type &^ InitialState {
	case ButtonControl:
		if e.Index < len(s.buttons) {
			if e.Value != 0 {
				s.buttons[e.Index] = PadButton{Pressed: true, Value: 1}
			} else {
				s.buttons[e.Index] = PadButton{}
			}
		}
	case AxisControl:
		if e.Index < len(s.axes) {
			s.axes[e.Index] = normalizeAxis(int(e.Value))
		}
	}
}

// pad returns a copy of the current state.
func (s *padState) pad() *Pad {
	s.RLock()
	defer s.RUnlock()
	p := &Pad{
		Axes:    make([]float64, len(s.axes)),
		Buttons: make([]PadButton, len(s.buttons)),
	}
	copy(p.Axes, s.axes)
	copy(p.Buttons, s.buttons)
	return p
}
