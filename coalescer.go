package gamepads

import "time"

// DefaultThreshold is the throttle window: an unchanged snapshot is sent
// again once this much time has passed since the last transmission.
const DefaultThreshold = 50 * time.Millisecond

// ShouldSend reports whether current must be transmitted given the last
// transmitted snapshot (nil before the first one) and its transmission time.
func ShouldSend(current Snapshot, last *Snapshot, lastTime, now time.Time, threshold time.Duration) bool {
	if last == nil || !current.Equal(*last) {
		return true
	}
	return now.Sub(lastTime) >= threshold
}

// LastSent is the most recently transmitted snapshot and the time the
// latest transmission started.
type LastSent struct {
	Snapshot *Snapshot
	Time     time.Time
}

// Transmission is a send decided by a Coalescer.
type Transmission struct {
	Seq      uint64
	Snapshot Snapshot
	At       time.Time

	prevTime time.Time
}

// Coalescer decides which samples are transmitted. It is not safe for
// concurrent use; the Loop owns it from a single goroutine.
type Coalescer struct {
	Threshold time.Duration

	// MaxInFlight caps outstanding transmissions. Zero means no cap.
	MaxInFlight int

	// RollbackOnFailure restores the throttle timestamp when a transmission
	// fails and nothing was started after it.
	RollbackOnFailure bool

	last     LastSent
	seq      uint64
	applied  uint64
	inFlight int
}

// NewCoalescer returns a Coalescer with no previous snapshot whose throttle
// window starts at start.
func NewCoalescer(threshold time.Duration, start time.Time) *Coalescer {
	return &Coalescer{
		Threshold:   threshold,
		MaxInFlight: 1,
		last:        LastSent{Time: start},
	}
}

// Offer decides whether s is transmitted at now. When it is, the throttle
// timestamp moves to now and the returned Transmission counts as in flight
// until passed to Complete.
func (c *Coalescer) Offer(s Snapshot, now time.Time) (Transmission, bool) {
	if c.MaxInFlight > 0 && c.inFlight >= c.MaxInFlight {
		return Transmission{}, false
	}
	if !ShouldSend(s, c.last.Snapshot, c.last.Time, now, c.Threshold) {
		return Transmission{}, false
	}
	c.seq++
	tr := Transmission{
		Seq:      c.seq,
		Snapshot: s.Clone(),
		At:       now,
		prevTime: c.last.Time,
	}
	c.last.Time = now
	c.inFlight++
	return tr, true
}

// Complete records the outcome of tr. It returns true when the transmitted
// snapshot became the new LastSent snapshot; failed and stale completions
// return false.
func (c *Coalescer) Complete(tr Transmission, err error) bool {
	if c.inFlight > 0 {
		c.inFlight--
	}
	if err != nil {
		// the snapshot stays stale so the next tick sees a difference
		if c.RollbackOnFailure && tr.Seq == c.seq && c.last.Time.Equal(tr.At) {
			c.last.Time = tr.prevTime
		}
		return false
	}
	if tr.Seq <= c.applied {
		return false
	}
	c.applied = tr.Seq
	s := tr.Snapshot.Clone()
	c.last.Snapshot = &s
	return true
}

// Last returns a copy of the LastSent state.
func (c *Coalescer) Last() LastSent {
	l := c.last
	if l.Snapshot != nil {
		s := l.Snapshot.Clone()
		l.Snapshot = &s
	}
	return l
}

// InFlight returns the number of outstanding transmissions.
func (c *Coalescer) InFlight() int {
	return c.inFlight
}
