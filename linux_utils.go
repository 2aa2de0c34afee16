package gamepads

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// linuxEventType is an enumeration of possible event types on a Linux system.
type linuxEventType uint8

const (
	irrelevantEventType linuxEventType = iota
	gamepadEventType
)

const (
	openAttempts   = 5
	openRetryDelay = 200 * time.Millisecond
)

// extractFromBytes classifies a NUL padded directory entry name from
// /dev/input. Joystick nodes are named js<n>.
func extractFromBytes(src []byte) (t linuxEventType, name string, ok bool) {
	switch {
	case len(src) >= 2 && bytes.Equal(src[:2], []byte("js")):
		return gamepadEventType, cString(src), true
	default:
		return irrelevantEventType, "", false
	}
}

// cString returns src up to the first NUL byte.
func cString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return string(src)
}

// deviceLess orders device names by their numeric suffix, so js2 comes
// before js10.
func deviceLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimLeft(a, "abcdefghijklmnopqrstuvwxyz"))
	nb, errB := strconv.Atoi(strings.TrimLeft(b, "abcdefghijklmnopqrstuvwxyz"))
	if errA != nil || errB != nil || na == nb {
		return a < b
	}
	return na < nb
}

// openDevice opens a device node read only. A node that was just created is
// owned by root until udev applies its rules, so permission errors are
// retried for a short while.
func openDevice(path string) (*os.File, error) {
	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrPermission) || attempt == openAttempts {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		time.Sleep(openRetryDelay)
	}
}
