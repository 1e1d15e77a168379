package track

import (
	"sync"
	"time"
)

// Tracker animates a helper marker toward a booking's coordinates.
// Purely cosmetic: positions are simulated client-side state and are
// never written to the store.
type Tracker struct {
	target   Position
	speed    float64
	interval time.Duration
	emit     func(pos Position, arrived bool)

	stopOnce sync.Once
	stop     chan struct{}
}

// NewTracker creates a tracker that reports positions via emit every
// interval until the marker arrives or Stop is called.
func NewTracker(target Position, interval time.Duration, emit func(pos Position, arrived bool)) *Tracker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Tracker{
		target:   target,
		speed:    DefaultSpeed,
		interval: interval,
		emit:     emit,
		stop:     make(chan struct{}),
	}
}

// Run blocks until arrival or Stop. Callers run it in a goroutine.
func (t *Tracker) Run() {
	pos := StartPosition(t.target)
	t.emit(pos, false)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			pos = Step(pos, t.target, now.Sub(last), t.speed)
			last = now

			arrived := Arrived(pos, t.target)
			t.emit(pos, arrived)
			if arrived {
				return
			}
		}
	}
}

// Stop halts the tracker. Idempotent.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
