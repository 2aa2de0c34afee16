//go:build linux

package gamepads

import "log"

func platformNotifier(eventChannel chan<- *Event, errChannel chan<- error, verbose bool, logger *log.Logger) (notify, error) {
	return linuxNotifier(eventChannel, errChannel, verbose, logger)
}
