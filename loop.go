package gamepads

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Transmitter delivers a payload to the server.
type Transmitter interface {
	Send(ctx context.Context, p Payload) error
}

// TransmitterFunc adapts a function to the Transmitter interface.
type TransmitterFunc func(ctx context.Context, p Payload) error

func (f TransmitterFunc) Send(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

type LoopConfig struct {
	ClientID          string
	Threshold         time.Duration
	FrameInterval     time.Duration
	MaxInFlight       int // zero means no cap
	RollbackOnFailure bool
	Verbose           bool
}

// Stats are the loop counters since start.
type Stats struct {
	Ticks  uint64
	Absent uint64
	Sent   uint64
	Acked  uint64
	Failed uint64
	Stale  uint64
}

type completion struct {
	tr  Transmission
	err error
}

// Loop samples a Poller every frame and forwards changed snapshots to a
// Transmitter. Tick, Run and the completion handling must be called from a
// single goroutine; Stats may be read from any goroutine.
type Loop struct {
	cfg     LoopConfig
	poller  Poller
	tx      Transmitter
	display Display
	logger  *log.Logger
	now     func() time.Time

	co   *Coalescer
	done chan completion

	ticks, absent, sent, acked, failed, stale atomic.Uint64
}

func NewLoop(cfg LoopConfig, poller Poller, tx Transmitter, display Display, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.New(os.Stdout, "loop: ", log.LstdFlags)
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	l := &Loop{
		cfg:     cfg,
		poller:  poller,
		tx:      tx,
		display: display,
		logger:  logger,
		now:     time.Now,
		done:    make(chan completion, 16),
	}
	l.co = NewCoalescer(cfg.Threshold, l.now())
	l.co.MaxInFlight = cfg.MaxInFlight
	l.co.RollbackOnFailure = cfg.RollbackOnFailure
	return l
}

// Run calls Tick once per frame until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(ctx, l.now())
		case c := <-l.done:
			l.complete(ctx, c)
		}
	}
}

// Tick samples the poller once and starts a transmission when the sample
// has to be sent. It reports whether a transmission was started.
func (l *Loop) Tick(ctx context.Context, now time.Time) bool {
	l.ticks.Add(1)
	s, ok := Sample(l.poller)
	if !ok {
		l.absent.Add(1)
		return false
	}
	tr, ok := l.co.Offer(s, now)
	if !ok {
		return false
	}
	l.sent.Add(1)

	p := Payload{
		Snapshot:  tr.Snapshot,
		ClientID:  l.cfg.ClientID,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
	}
	go func() {
		err := l.tx.Send(ctx, p)
		select {
		case l.done <- completion{tr: tr, err: err}:
		case <-ctx.Done():
		}
	}()
	return true
}

// complete applies a finished transmission. An accepted snapshot is shown
// and followed by an immediate re-check.
func (l *Loop) complete(ctx context.Context, c completion) {
	applied := l.co.Complete(c.tr, c.err)
	if c.err != nil {
		l.failed.Add(1)
		l.logger.Printf("send #%d failed: %v", c.tr.Seq, c.err)
		return
	}
	l.acked.Add(1)
	if !applied {
		l.stale.Add(1)
		if l.cfg.Verbose {
			l.logger.Printf("discarding stale acknowledgement #%d", c.tr.Seq)
		}
		return
	}
	if l.display != nil {
		l.display.Show(c.tr.Snapshot)
	}
	l.Tick(ctx, l.now())
}

// LastSent returns the state of the most recent transmission.
func (l *Loop) LastSent() LastSent {
	return l.co.Last()
}

func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:  l.ticks.Load(),
		Absent: l.absent.Load(),
		Sent:   l.sent.Load(),
		Acked:  l.acked.Load(),
		Failed: l.failed.Load(),
		Stale:  l.stale.Load(),
	}
}
