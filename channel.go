package gamepads

import (
	"context"
	"sync"
)

// EventChannel represents an event channel that can be used to receive events from gamepads.
// Ch is closed once CancelFunc has been called.
type EventChannel struct {
	Ctx        context.Context
	Ch         chan *Event
	CancelFunc context.CancelFunc

	mu      sync.Mutex
	closed  bool
	filters []FilterFunc
}

// FilterFunc is a function type used to filter events before they are sent to the event channel.
type FilterFunc func(e *Event) bool

// deliver sends e unless a filter rejects it. It blocks until the receiver
// takes the event or the channel is cancelled.
func (c *EventChannel) deliver(e *Event) {
	for _, filter := range c.filters {
		if !filter(e) {
			return
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Ch <- e:
	case <-c.Ctx.Done():
	}
}

func (c *EventChannel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Ch)
	}
}
