package gamepads

type EventType uint8

const (
	ConnectEventType EventType = iota
	DisconnectEventType
)

// Event is a hot-plug notification. Data holds the Gamepad for connect events.
type Event struct {
	Type EventType
	ID   string
	Data any
}

type ControlType uint8

const (
	ButtonControl ControlType = 0x01
	AxisControl   ControlType = 0x02
	InitialState  ControlType = 0x80
)

// ControlEvent is one decoded joystick event record.
type ControlEvent struct {
	Timestamp uint32
	Type      ControlType
	Index     int
	Value     int16
}
