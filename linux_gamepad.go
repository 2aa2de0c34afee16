//go:build linux

package gamepads

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	gpName    uintptr = 0x80006a13 + (128 << 16)
	gpAxes    uintptr = 0x80016a11 /* get number of axes */
	gpButtons uintptr = 0x80016a12
	gpVersion uintptr = 0x80046a01
)

type gamepadLinux struct {
	*padState
	file     *os.File
	id       string
	path     string
	devName  string
	buttons  uint8
	axes     uint8
	version  int32
	stopOnce sync.Once
}

func newLinuxGamepad(name, path string) (*gamepadLinux, error) {

	f, err := openDevice(path)
	if err != nil {
		return nil, err
	}

	gp := &gamepadLinux{
		id:   name,
		path: path,
		file: f,
	}

	if err = ioctlStr(f, gpName, &gp.devName); err == nil {
		err = ioctl(f, gpButtons, unsafe.Pointer(&gp.buttons))
	}
	if err == nil {
		err = ioctl(f, gpAxes, unsafe.Pointer(&gp.axes))
	}
	if err == nil {
		err = ioctl(f, gpVersion, unsafe.Pointer(&gp.version))
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	gp.padState = newPadState(int(gp.axes), int(gp.buttons))
	return gp, nil
}

func (g *gamepadLinux) info() Gamepad {
	return Gamepad{
		ID:      g.id,
		Model:   g.devName,
		Buttons: int(g.buttons),
		Axes:    int(g.axes),
	}
}

// start feeds the pad state from the device until the device is closed or
// removed. onExit is called with the read error that ended the loop.
func (g *gamepadLinux) start(onExit func(err error)) {
	go func() {
		for {
			e, err := readControlEvent(g.file)
			if err != nil {
				onExit(err)
				return
			}
			g.apply(e)
		}
	}()
}

func (g *gamepadLinux) stop() {
	g.stopOnce.Do(func() {
		_ = g.file.Close()
	})
}

// ioctl goes through SyscallConn so the file stays in non-blocking mode and
// Close interrupts a pending read.
func ioctl(f *os.File, infoType uintptr, dest unsafe.Pointer) (err error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var errno unix.Errno
	if err = rc.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, infoType, uintptr(dest))
	}); err != nil {
		return err
	}
	if errno != 0 {
		return fmt.Errorf("ioctl error: %w", errno)
	}
	return
}

func ioctlStr(f *os.File, infoType uintptr, dest *string) (err error) {
	info := make([]byte, 128)
	if err = ioctl(f, infoType, unsafe.Pointer(&info[0])); err != nil {
		return
	}
	*dest = cString(info)
	return
}
