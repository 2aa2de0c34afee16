package gamepads

import "errors"

const (
	ErrConfigPathRequired = "config path required"
	ErrUnknownTransport   = "unknown transport '%s'"
	ErrUnknownDevice      = "unknown device source '%s'"
	ErrUnexpectedStatus   = "unexpected status %d from %s"
	ErrServerRejected     = "server rejected payload: %s"
	ErrPublishTimeout     = "publish to '%s' timed out"
)

var (
	// ErrOsNotSupported is returned by NewBus on platforms without a joystick bus.
	ErrOsNotSupported = errors.New("os is not supported (yet)")

	// ErrTransmit wraps every failed transmission.
	ErrTransmit = errors.New("transmission failed")
)
