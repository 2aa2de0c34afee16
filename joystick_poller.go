package gamepads

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/0xcafed00d/joystick"
)

const (
	DefaultMaxDevices    = 4
	DefaultProbeInterval = time.Second
)

// JoystickPoller polls devices through the joystick package. Slots without
// an open device are probed again at most once per ProbeInterval.
type JoystickPoller struct {
	sync.Mutex
	maxDevices    int
	probeInterval time.Duration
	verbose       bool
	logger        *log.Logger
	open          func(id int) (joystick.Joystick, error)

	devices   []joystick.Joystick
	lastProbe []time.Time
	now       func() time.Time
}

func NewJoystickPoller(maxDevices int, verbose bool, logger *log.Logger) *JoystickPoller {
	if maxDevices <= 0 {
		maxDevices = DefaultMaxDevices
	}
	if logger == nil {
		logger = log.New(os.Stdout, "joystick: ", log.LstdFlags)
	}
	return &JoystickPoller{
		maxDevices:    maxDevices,
		probeInterval: DefaultProbeInterval,
		verbose:       verbose,
		logger:        logger,
		open:          joystick.Open,
		devices:       make([]joystick.Joystick, maxDevices),
		lastProbe:     make([]time.Time, maxDevices),
		now:           time.Now,
	}
}

func (p *JoystickPoller) Poll() []*Pad {
	p.Lock()
	defer p.Unlock()

	now := p.now()
	pads := make([]*Pad, p.maxDevices)
	for id := range p.devices {
		js := p.devices[id]
		if js == nil {
			if !p.lastProbe[id].IsZero() && now.Sub(p.lastProbe[id]) < p.probeInterval {
				continue
			}
			p.lastProbe[id] = now
			var err error
			if js, err = p.open(id); err != nil {
				if p.verbose {
					p.logger.Printf("probe %d: %v", id, err)
				}
				continue
			}
			p.logger.Printf("joystick %d connected: %s (%d axes, %d buttons)", id, js.Name(), js.AxisCount(), js.ButtonCount())
			p.devices[id] = js
		}

		state, err := js.Read()
		if err != nil {
			p.logger.Printf("joystick %d disconnected: %v", id, err)
			js.Close()
			p.devices[id] = nil
			p.lastProbe[id] = now
			continue
		}
		pads[id] = padFromState(state, js.ButtonCount())
	}
	return pads
}

// Close releases every open device.
func (p *JoystickPoller) Close() {
	p.Lock()
	defer p.Unlock()
	for id, js := range p.devices {
		if js != nil {
			js.Close()
			p.devices[id] = nil
		}
	}
}

func padFromState(state joystick.State, buttons int) *Pad {
	if buttons > 32 {
		buttons = 32
	}
	pad := &Pad{
		Axes:    make([]float64, len(state.AxisData)),
		Buttons: make([]PadButton, buttons),
	}
	for i, v := range state.AxisData {
		pad.Axes[i] = normalizeAxis(v)
	}
	for i := range pad.Buttons {
		if state.Buttons&(1<<uint(i)) != 0 {
			pad.Buttons[i] = PadButton{Pressed: true, Value: 1}
		}
	}
	return pad
}
