//go:build linux

package gamepads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	inputPath = "/dev/input"

	// pollTimeoutMs bounds how long the watcher waits before rechecking
	// its context.
	pollTimeoutMs = 250
)

type notifyLinux struct {
	sync.RWMutex
	ctx          context.Context
	cancelFunc   context.CancelFunc
	watching     sync.WaitGroup
	readers      sync.WaitGroup
	gp           map[string]*gamepadLinux
	eventChannel chan<- *Event
	errChannel   chan<- error
	verbose      bool
	logger       *log.Logger
}

// linuxNotifier creates a Linux-specific gamepad notification system.
func linuxNotifier(eventChannel chan<- *Event, errChannel chan<- error, verbose bool, logger *log.Logger) (nn notify, err error) {

	nl := &notifyLinux{
		gp:           make(map[string]*gamepadLinux),
		eventChannel: eventChannel,
		errChannel:   errChannel,
		verbose:      verbose,
		logger:       logger,
	}
	nl.ctx, nl.cancelFunc = context.WithCancel(context.Background())

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("inotify init failed: %w", err)
	}
	wd, err := unix.InotifyAddWatch(fd, inputPath, unix.IN_CREATE|unix.IN_DELETE)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("inotify add watch failed: %w", err)
	}

	// devices present before the watch started
	current, err := os.ReadDir(inputPath)
	if err != nil {
		_, _ = unix.InotifyRmWatch(fd, uint32(wd))
		_ = unix.Close(fd)
		return nil, err
	}
	for _, entry := range current {
		nl.handleEvent(unix.IN_CREATE, []byte(entry.Name()))
	}

	nl.watching.Add(1)
	go nl.watch(fd, wd)

	return nl, nil
}

// watch reads inotify events until the notifier is stopped.
func (nl *notifyLinux) watch(fd, wd int) {
	defer nl.watching.Done()
	defer func() {
		_, _ = unix.InotifyRmWatch(fd, uint32(wd))
		if err := unix.Close(fd); err != nil {
			nl.report(fmt.Errorf("inotify close failed: %w", err))
		}
	}()

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	buf := make([]byte, 4096)

	for {
		select {
		case <-nl.ctx.Done():
			return
		default:
		}

		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			nl.report(fmt.Errorf("poll failed: %w", err))
			return
		}
		if n == 0 {
			continue
		}

		n, err = unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			nl.report(fmt.Errorf("read failed: %w", err))
			return
		}

		var offset uint32
		for offset+unix.SizeofInotifyEvent <= uint32(n) {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			start := offset + unix.SizeofInotifyEvent
			end := start + event.Len
			if end > uint32(n) {
				break
			}
			nl.handleEvent(event.Mask, buf[start:end])
			offset = end
		}
	}
}

// gamepads returns a list of connected gamepads.
func (nl *notifyLinux) gamepads() (devices []Gamepad) {
	for _, gp := range nl.sorted() {
		devices = append(devices, gp.info())
	}
	return
}

// poll returns the current state of every connected gamepad ordered by
// device name.
func (nl *notifyLinux) poll() (pads []*Pad) {
	for _, gp := range nl.sorted() {
		pads = append(pads, gp.pad())
	}
	return
}

func (nl *notifyLinux) sorted() []*gamepadLinux {
	nl.RLock()
	defer nl.RUnlock()
	list := make([]*gamepadLinux, 0, len(nl.gp))
	for _, gp := range nl.gp {
		list = append(list, gp)
	}
	sort.Slice(list, func(i, j int) bool {
		return deviceLess(list[i].id, list[j].id)
	})
	return list
}

// stop stops the notification system.
func (nl *notifyLinux) stop() (err error) {
	nl.cancelFunc()
	nl.watching.Wait()

	nl.Lock()
	gps := nl.gp
	nl.gp = make(map[string]*gamepadLinux)
	nl.Unlock()
	for _, gp := range gps {
		gp.stop()
	}

	// no reader may publish once the event channel is closed
	nl.readers.Wait()
	return
}

// handleEvent is called for every entry of the input directory, on start and
// when the inotify watch reports a change.
func (nl *notifyLinux) handleEvent(mask uint32, bt []byte) {

	t, name, ok := extractFromBytes(bt)
	if !ok || t != gamepadEventType {
		return
	}

	switch {
	case mask&unix.IN_CREATE != 0:
		nl.connectGamepad(name)
	case mask&unix.IN_DELETE != 0:
		nl.disconnectGamepad(name)
	}
}

// connectGamepad is called when a new gamepad device is connected.
func (nl *notifyLinux) connectGamepad(name string) {

	path := fmt.Sprintf("%s/%s", inputPath, name)

	newGp, err := newLinuxGamepad(name, path)
	if err != nil {
		nl.report(err)
		return
	}
	nl.attach(newGp)
}

// attach registers gp, starts its reader and publishes the connect event.
func (nl *notifyLinux) attach(newGp *gamepadLinux) {
	name := newGp.id

	nl.Lock()
	if old, ok := nl.gp[name]; ok {
		old.stop()
	}
	nl.gp[name] = newGp
	nl.Unlock()

	nl.readers.Add(1)
	newGp.start(func(err error) {
		defer nl.readers.Done()
		if nl.ctx.Err() != nil {
			return
		}
		if nl.verbose {
			nl.logger.Printf("%s: reader stopped: %v", name, err)
		}
		nl.removeGamepad(newGp)
	})

	nl.publish(&Event{
		Type: ConnectEventType,
		ID:   newGp.id,
		Data: newGp.info(),
	})
}

func (nl *notifyLinux) disconnectGamepad(name string) {
	nl.RLock()
	gp, ok := nl.gp[name]
	nl.RUnlock()
	if ok {
		nl.removeGamepad(gp)
	}
}

// removeGamepad drops gp if it is still registered and publishes the
// disconnect once.
func (nl *notifyLinux) removeGamepad(gp *gamepadLinux) {
	nl.Lock()
	current, ok := nl.gp[gp.id]
	if !ok || current != gp {
		nl.Unlock()
		return
	}
	delete(nl.gp, gp.id)
	nl.Unlock()

	gp.stop()
	nl.publish(&Event{
		Type: DisconnectEventType,
		ID:   gp.id,
	})
}

func (nl *notifyLinux) publish(e *Event) {
	select {
	case <-nl.ctx.Done():
	case nl.eventChannel <- e:
	}
}

// report forwards err to the error channel, or logs it when nobody listens.
func (nl *notifyLinux) report(err error) {
	select {
	case nl.errChannel <- err:
	default:
		nl.logger.Printf("%v", err)
	}
}
