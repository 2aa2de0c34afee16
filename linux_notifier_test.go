//go:build linux

package gamepads

import (
	"context"
	"os"
	"testing"
	"time"
)

func newPipeGamepad(t *testing.T, id string) (*gamepadLinux, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return &gamepadLinux{
		padState: newPadState(2, 2),
		file:     r,
		id:       id,
		path:     "/dev/input/" + id,
		devName:  "pipe pad",
		axes:     2,
		buttons:  2,
	}, w
}

func newTestNotifier(events chan *Event) *notifyLinux {
	nl := &notifyLinux{
		gp:           make(map[string]*gamepadLinux),
		eventChannel: events,
		errChannel:   make(chan error, 4),
		logger:       quietLogger(),
	}
	nl.ctx, nl.cancelFunc = context.WithCancel(context.Background())
	return nl
}

func TestNotifierReaderUpdatesPad(t *testing.T) {
	events := make(chan *Event, 4)
	nl := newTestNotifier(events)
	gp, w := newPipeGamepad(t, "js0")
	nl.attach(gp)

	if e := <-events; e.Type != ConnectEventType || e.ID != "js0" {
		t.Fatalf("connect event %+v", e)
	}

	// js_event: time, value, type, number
	if _, err := w.Write([]byte{0, 0, 0, 0, 0xff, 0x7f, byte(AxisControl), 0}); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for {
		pads := nl.poll()
		if len(pads) == 1 && pads[0].Axes[0] == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("axis not applied: %+v", pads)
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = w.Close()
	select {
	case e := <-events:
		if e.Type != DisconnectEventType || e.ID != "js0" {
			t.Errorf("disconnect event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no disconnect event")
	}
	if len(nl.gamepads()) != 0 {
		t.Error("gamepad still registered")
	}
	if err := nl.stop(); err != nil {
		t.Fatal(err)
	}
}

func TestNotifierStopWaitsForReaders(t *testing.T) {
	events := make(chan *Event)
	nl := newTestNotifier(events)
	gp, w := newPipeGamepad(t, "js0")

	go nl.attach(gp)
	if e := <-events; e.Type != ConnectEventType {
		t.Fatalf("connect event %+v", e)
	}

	// the reader ends and blocks publishing its disconnect with nobody
	// receiving
	_ = w.Close()
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		_ = nl.stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop blocked")
	}

	// the bus closes its event channel right after stop; a reader still
	// publishing would panic here
	close(events)
	time.Sleep(20 * time.Millisecond)
	if len(nl.gamepads()) != 0 {
		t.Error("gamepads left after stop")
	}
}
