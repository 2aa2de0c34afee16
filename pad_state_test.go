package gamepads

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func encodeEvents(t *testing.T, events ...eventLinux) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range events {
		if err := binary.Write(&buf, binary.LittleEndian, e); err != nil {
			t.Fatal(err)
		}
	}
	return bytes.NewReader(buf.Bytes())
}

func TestReadControlEvent(t *testing.T) {
	r := encodeEvents(t,
		eventLinux{Timestamp: 7, Value: 1, Type: uint8(ButtonControl | InitialState), Index: 2},
		eventLinux{Timestamp: 9, Value: -32767, Type: uint8(AxisControl), Index: 1},
	)
	first, err := readControlEvent(r)
	if err != nil {
		t.Fatal(err)
	}
	if first.Timestamp != 7 || first.Type&^InitialState != ButtonControl || first.Index != 2 || first.Value != 1 {
		t.Errorf("first event %+v", first)
	}
	second, err := readControlEvent(r)
	if err != nil {
		t.Fatal(err)
	}
	if second.Type != AxisControl || second.Index != 1 || second.Value != -32767 {
		t.Errorf("second event %+v", second)
	}
	if _, err := readControlEvent(r); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestPadStateApply(t *testing.T) {
	s := newPadState(2, 3)
	s.apply(ControlEvent{Type: ButtonControl | InitialState, Index: 1, Value: 1})
	s.apply(ControlEvent{Type: AxisControl, Index: 0, Value: 32767})
	s.apply(ControlEvent{Type: AxisControl, Index: 5, Value: 100})
	s.apply(ControlEvent{Type: ButtonControl, Index: 9, Value: 1})

	pad := s.pad()
	if pad.Axes[0] != 1 || pad.Axes[1] != 0 {
		t.Errorf("axes %v", pad.Axes)
	}
	if !pad.Buttons[1].Pressed || pad.Buttons[1].Value != 1 || pad.Buttons[0].Pressed {
		t.Errorf("buttons %+v", pad.Buttons)
	}

	s.apply(ControlEvent{Type: ButtonControl, Index: 1, Value: 0})
	if s.pad().Buttons[1].Pressed {
		t.Error("release not applied")
	}
	// the copy is detached from the live state
	if !pad.Buttons[1].Pressed {
		t.Error("returned pad changed with the state")
	}
}
