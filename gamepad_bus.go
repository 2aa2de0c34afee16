package gamepads

import (
	"context"
	"log"
	"os"
	"sync"
)

type bus struct {
	sync.RWMutex
	verbose      bool
	logger       *log.Logger
	eventChannel chan *Event
	errChannel   chan error
	notifier     notify
	channels     []*EventChannel
	dispatching  sync.WaitGroup
}

// Bus tracks hot-plugged gamepads and exposes their live state as a Poller.
type Bus interface {
	Poller
	NewEventChannel(filters ...FilterFunc) (dest *EventChannel)
	Gamepads() (gamepads []Gamepad)
	Close()
}

// NewBus starts watching for gamepads. Errors raised after start are
// delivered on errCh, which is closed by Close.
func NewBus(verbose bool, logger *log.Logger) (b Bus, errCh <-chan error, err error) {

	if logger == nil {
		logger = log.New(os.Stdout, "bus: ", log.LstdFlags)
	}

	dest := &bus{
		verbose:      verbose,
		logger:       logger,
		eventChannel: make(chan *Event),
		errChannel:   make(chan error, 16),
	}

	// the notifier publishes connect events for present devices while it
	// starts, so the dispatcher has to run first
	dest.dispatching.Add(1)
	go dest.dispatch()

	if dest.notifier, err = platformNotifier(dest.eventChannel, dest.errChannel, verbose, logger); err != nil {
		close(dest.eventChannel)
		dest.dispatching.Wait()
		return nil, nil, err
	}
	return dest, dest.errChannel, nil
}

// dispatch copies every event to the subscribed channels whose filters
// accept it.
func (b *bus) dispatch() {
	defer b.dispatching.Done()
	for event := range b.eventChannel {
		b.RLock()
		channels := make([]*EventChannel, len(b.channels))
		copy(channels, b.channels)
		b.RUnlock()

		for _, ch := range channels {
			ch.deliver(event)
		}
	}
}

func (b *bus) NewEventChannel(filters ...FilterFunc) (dest *EventChannel) {

	if b.current() == nil {
		return nil
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	dest = &EventChannel{
		Ctx:        ctx,
		Ch:         make(chan *Event, 16),
		CancelFunc: cancelFunc,
		filters:    filters,
	}

	b.Lock()
	b.channels = append(b.channels, dest)
	b.Unlock()

	go func() {
		<-ctx.Done()
		b.Lock()
		var clean []*EventChannel
		for _, channel := range b.channels {
			if channel != dest {
				clean = append(clean, channel)
			}
		}
		b.channels = clean
		b.Unlock()
		dest.close()
	}()

	return
}

func (b *bus) current() notify {
	b.RLock()
	defer b.RUnlock()
	return b.notifier
}

func (b *bus) Gamepads() (devices []Gamepad) {
	n := b.current()
	if n == nil {
		return nil
	}
	return n.gamepads()
}

func (b *bus) Poll() []*Pad {
	n := b.current()
	if n == nil {
		return nil
	}
	return n.poll()
}

func (b *bus) Close() {

	b.Lock()
	n := b.notifier
	b.notifier = nil
	b.Unlock()
	if n == nil {
		return
	}

	if err := n.stop(); err != nil {
		b.logger.Printf("stop notifier: %v", err)
	}

	// subscribers are cancelled first so a full, undrained channel cannot
	// hold the dispatcher
	b.RLock()
	channels := make([]*EventChannel, len(b.channels))
	copy(channels, b.channels)
	b.RUnlock()
	for _, ch := range channels {
		ch.CancelFunc()
	}

	close(b.eventChannel)
	b.dispatching.Wait()

	close(b.errChannel)
}
