package lead

import (
	"context"
	"errors"
	"sync"
	"time"

	"homeserve/internal/domain/booking"
)

// Acceptor performs the conditional pending -> confirmed write.
// booking.Service satisfies it.
type Acceptor interface {
	Accept(ctx context.Context, id string, helperID int64, helperName, helperPhone string) (*booking.Booking, error)
}

// EventType marks a change in what the queue is showing.
type EventType string

const (
	// EventCurrent fires when a lead becomes the displayed one and
	// its countdown starts.
	EventCurrent EventType = "current"
	// EventExpired fires when the displayed lead's countdown ran out.
	EventExpired EventType = "expired"
)

type Event struct {
	Type EventType
	Lead Lead
}

// Queue is one helper's local queue of time-boxed leads. The head of
// the queue is the "currently displayed" lead and owns the countdown;
// leads behind it wait with no timer running. Expiry, decline and a
// lost accept race all remove the lead locally and never write to the
// store.
type Queue struct {
	mu       sync.Mutex
	ttl      time.Duration
	acceptor Acceptor
	onEvent  func(Event)

	items  []*Lead
	timer  *time.Timer
	closed bool
}

// NewQueue creates a queue. onEvent may be nil; it is invoked without
// the queue lock held.
func NewQueue(acceptor Acceptor, ttl time.Duration, onEvent func(Event)) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	return &Queue{
		ttl:      ttl,
		acceptor: acceptor,
		onEvent:  onEvent,
	}
}

// Push enqueues a pending booking as a lead. If the queue was empty
// the lead immediately becomes current and its countdown starts.
func (q *Queue) Push(b booking.Booking) {
	q.mu.Lock()
	if q.closed || q.findLocked(b.ID) != nil {
		q.mu.Unlock()
		return
	}

	l := &Lead{Booking: b, EnqueuedAt: time.Now()}
	q.items = append(q.items, l)

	var ev *Event
	if len(q.items) == 1 {
		ev = q.promoteLocked()
	}
	q.mu.Unlock()

	if ev != nil {
		q.onEvent(*ev)
	}
}

// Current returns the displayed lead, or nil.
func (q *Queue) Current() *Lead {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	cp := *q.items[0]
	return &cp
}

// Len returns the number of queued leads including the current one.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Accept claims the lead via the store's conditional update. Losing
// the race is not a fault: the lead is removed locally and (nil, nil)
// is returned so the UI just moves on to the next lead.
func (q *Queue) Accept(ctx context.Context, id string, helperID int64, helperName, helperPhone string) (*booking.Booking, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	if q.findLocked(id) == nil {
		q.mu.Unlock()
		return nil, ErrLeadNotFound
	}
	q.mu.Unlock()

	b, err := q.acceptor.Accept(ctx, id, helperID, helperName, helperPhone)

	if err == nil || errors.Is(err, booking.ErrAlreadyTaken) {
		q.remove(id)
	}
	if errors.Is(err, booking.ErrAlreadyTaken) {
		return nil, nil
	}
	return b, err
}

// Decline removes the lead from the local queue only.
func (q *Queue) Decline(id string) bool {
	return q.remove(id)
}

// Remove drops a lead that is no longer pending in the store (taken
// by someone else, cancelled by the customer).
func (q *Queue) Remove(id string) bool {
	return q.remove(id)
}

// Close stops the countdown. Guaranteed on session teardown.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.stopTimerLocked()
	q.items = nil
}

func (q *Queue) remove(id string) bool {
	q.mu.Lock()
	idx := -1
	for i := range q.items {
		if q.items[i].Booking.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		q.mu.Unlock()
		return false
	}

	wasCurrent := idx == 0
	q.items = append(q.items[:idx], q.items[idx+1:]...)

	var ev *Event
	if wasCurrent {
		q.stopTimerLocked()
		ev = q.promoteLocked()
	}
	q.mu.Unlock()

	if ev != nil {
		q.onEvent(*ev)
	}
	return true
}

// promoteLocked makes the head lead current and arms its countdown.
func (q *Queue) promoteLocked() *Event {
	if q.closed || len(q.items) == 0 {
		return nil
	}

	head := q.items[0]
	head.ExpiresAt = time.Now().Add(q.ttl)

	id := head.Booking.ID
	q.timer = time.AfterFunc(q.ttl, func() { q.expire(id) })

	ev := Event{Type: EventCurrent, Lead: *head}
	return &ev
}

// expire removes the current lead locally when its countdown hits
// zero. The store is never touched here: the booking stays pending
// and may still be offered to (or taken by) someone else.
func (q *Queue) expire(id string) {
	q.mu.Lock()
	if q.closed || len(q.items) == 0 || q.items[0].Booking.ID != id {
		q.mu.Unlock()
		return
	}

	expired := *q.items[0]
	q.items = q.items[1:]
	next := q.promoteLocked()
	q.mu.Unlock()

	q.onEvent(Event{Type: EventExpired, Lead: expired})
	if next != nil {
		q.onEvent(*next)
	}
}

func (q *Queue) findLocked(id string) *Lead {
	for _, l := range q.items {
		if l.Booking.ID == id {
			return l
		}
	}
	return nil
}

func (q *Queue) stopTimerLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
