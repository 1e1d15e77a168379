package feed

import (
	"context"
	"log"
	"sync"

	"homeserve/internal/domain/booking"
)

// subscription buffer; a subscriber that falls this far behind starts
// dropping events (same policy as the websocket hub).
const subBuffer = 64

// Mirror re-publishes feed events to an external broker. Optional.
type Mirror interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Bus is the in-process change feed: booking writes are published
// here and fanned out to every live subscription. It implements
// booking.Feed.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool

	mirror Mirror
}

// Subscription is one consumer of the feed. C delivers events until
// Close, which is idempotent and safe to call from any goroutine.
type Subscription struct {
	C    chan booking.Event
	bus  *Bus
	once sync.Once
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// SetMirror attaches an external publisher (e.g. AMQP) that receives
// a copy of every event.
func (b *Bus) SetMirror(m Mirror) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mirror = m
}

func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{C: make(chan booking.Event, subBuffer), bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.C)
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if _, ok := s.bus.subs[s]; ok {
			delete(s.bus.subs, s)
			close(s.C)
		}
		s.bus.mu.Unlock()
	})
}

// Publish fans the event out. Slow subscribers drop events rather
// than block the writer; a reconnecting session reseeds its state
// from the store, so a drop costs a notification, not correctness.
func (b *Bus) Publish(ev booking.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for s := range b.subs {
		select {
		case s.C <- ev:
		default:
			// subscriber too slow
		}
	}

	if b.mirror != nil {
		if err := b.mirror.PublishJSON(context.Background(), "booking."+string(ev.Type), ev); err != nil {
			log.Printf("feed: mirror publish failed: %v", err)
		}
	}
}

// Close shuts the bus down; all subscription channels are closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		close(s.C)
	}
}

// BookingCreated implements booking.Feed.
func (b *Bus) BookingCreated(bk *booking.Booking) {
	b.Publish(booking.Event{Type: booking.EventInsert, Booking: bk})
}

// BookingUpdated implements booking.Feed.
func (b *Bus) BookingUpdated(old, bk *booking.Booking) {
	b.Publish(booking.Event{Type: booking.EventUpdate, Booking: bk, Old: old})
}
