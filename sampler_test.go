package gamepads

import "testing"

func staticPoller(pads ...*Pad) Poller {
	return PollerFunc(func() []*Pad { return pads })
}

func TestSampleAbsent(t *testing.T) {
	if _, ok := Sample(staticPoller()); ok {
		t.Error("sample from no devices")
	}
	if _, ok := Sample(staticPoller(nil, nil)); ok {
		t.Error("sample from empty slots")
	}
}

func TestSampleScenario(t *testing.T) {
	pad := &Pad{
		Axes:    []float64{0.5, -0.3, 0, 0},
		Buttons: make([]PadButton, 4),
	}
	got, ok := Sample(staticPoller(pad))
	if !ok {
		t.Fatal("no sample")
	}
	want := Snapshot{
		Type: "axis",
		Axes: Axes{LeftStick: Stick{X: 0.5, Y: -0.3}},
		Buttons: []Button{
			{Name: "BtnA", Index: 0},
			{Name: "BtnB", Index: 1},
			{Name: "BtnX", Index: 2},
			{Name: "BtnY", Index: 3},
		},
	}
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSampleFirstConnected(t *testing.T) {
	pad := &Pad{Axes: []float64{1}}
	got, ok := Sample(staticPoller(nil, pad))
	if !ok {
		t.Fatal("no sample")
	}
	if got.Axes.LeftStick.X != 1 {
		t.Errorf("sampled wrong pad: %+v", got)
	}
}

func TestSampleShortAxesAndFallbackNames(t *testing.T) {
	buttons := make([]PadButton, 21)
	buttons[20] = PadButton{Pressed: true, Value: 0.75}
	got, ok := Sample(staticPoller(&Pad{Axes: []float64{0.1}, Buttons: buttons}))
	if !ok {
		t.Fatal("no sample")
	}
	if got.Axes.LeftStick.Y != 0 || got.Axes.RightStick != (Stick{}) {
		t.Errorf("missing axes not zero: %+v", got.Axes)
	}
	last := got.Buttons[20]
	if last.Name != "Button20" || last.Index != 20 || !last.Pressed || last.Value != 0.75 {
		t.Errorf("unexpected button: %+v", last)
	}
}
