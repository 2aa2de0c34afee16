package gamepads

import (
	"encoding/json"
	"math"
	"testing"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Type: SnapshotType,
		Axes: Axes{
			LeftStick:  Stick{X: 0.5, Y: -0.3},
			RightStick: Stick{},
		},
		Buttons: []Button{
			{Name: "BtnA", Index: 0},
			{Name: "BtnB", Pressed: true, Value: 1, Index: 1},
		},
	}
}

func TestButtonName(t *testing.T) {
	cases := map[int]string{
		0:  "BtnA",
		6:  "TriggerL",
		9:  "BtnStart",
		15: "Dpad_Right",
		16: "Button16",
		20: "Button20",
	}
	for index, want := range cases {
		if got := ButtonName(index); got != want {
			t.Errorf("ButtonName(%d) = %q, want %q", index, got, want)
		}
	}
}

func TestButtonNamesInjective(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < 16; i++ {
		name, ok := ButtonNames[i]
		if !ok {
			t.Fatalf("index %d has no name", i)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("%q used by %d and %d", name, prev, i)
		}
		seen[name] = i
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := testSnapshot()
	b := testSnapshot()
	if !a.Equal(b) {
		t.Fatal("identical snapshots differ")
	}

	b.Axes.RightStick.Y = 0.01
	if a.Equal(b) {
		t.Error("axis change not detected")
	}

	b = testSnapshot()
	b.Buttons[1].Value = 0.9
	if a.Equal(b) {
		t.Error("button value change not detected")
	}

	b = testSnapshot()
	b.Buttons = b.Buttons[:1]
	if a.Equal(b) {
		t.Error("button count change not detected")
	}

	b = testSnapshot()
	b.Buttons[0], b.Buttons[1] = b.Buttons[1], b.Buttons[0]
	if a.Equal(b) {
		t.Error("button order change not detected")
	}
}

func TestSnapshotEqualNaN(t *testing.T) {
	a := testSnapshot()
	a.Axes.LeftStick.X = math.NaN()
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("NaN axes should compare equal")
	}
}

func TestSnapshotClone(t *testing.T) {
	a := testSnapshot()
	b := a.Clone()
	b.Buttons[0].Pressed = true
	if a.Buttons[0].Pressed {
		t.Error("clone shares button storage")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := Snapshot{
		Type: SnapshotType,
		Axes: Axes{LeftStick: Stick{X: 0.5, Y: -0.3}},
		Buttons: []Button{
			{Name: "BtnA", Index: 0},
			{Name: "BtnB", Index: 1},
		},
	}
	got, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"axis","axes":{"left_stick":{"x":0.5,"y":-0.3},"right_stick":{"x":0,"y":0}},` +
		`"buttons":[{"name":"BtnA","pressed":false,"value":0,"index":0},{"name":"BtnB","pressed":false,"value":0,"index":1}]}`
	if string(got) != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPayloadJSON(t *testing.T) {
	p := Payload{Snapshot: testSnapshot(), ClientID: "abc", Timestamp: 12.5}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"type", "axes", "buttons", "client_id", "timestamp"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing %q in %s", key, data)
		}
	}

	data, _ = json.Marshal(Payload{Snapshot: testSnapshot()})
	m = nil
	_ = json.Unmarshal(data, &m)
	if _, ok := m["client_id"]; ok {
		t.Errorf("empty client_id not omitted: %s", data)
	}
}
