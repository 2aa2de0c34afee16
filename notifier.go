package gamepads

type notify interface {
	stop() (err error)
	gamepads() (devices []Gamepad)
	poll() (pads []*Pad)
}
