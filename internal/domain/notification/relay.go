package notification

import (
	"sync"
	"time"

	"homeserve/internal/domain/booking"
)

// maxRecent bounds per-session memory: only the newest notifications
// are retained.
const maxRecent = 25

// Mode selects which feed events a relay turns into notifications.
type Mode int

const (
	// ModeCustomer notifies on status transitions of already-known
	// bookings (the viewer's own).
	ModeCustomer Mode = iota
	// ModeHelper additionally notifies on every new pending booking
	// (a fresh lead) and starts with an empty map.
	ModeHelper
)

// statusMessages maps a newly observed status to its user-facing
// message. Statuses without an entry update the map silently.
var statusMessages = map[booking.Status]struct{ title, body string }{
	booking.StatusConfirmed: {"Helper Assigned", "A helper accepted your booking and will be on the way soon"},
	booking.StatusEnRoute:   {"Helper On The Way", "Your helper is heading to your address"},
	booking.StatusArrived:   {"Helper Arrived", "Your helper has arrived"},
	booking.StatusOngoing:   {"Job Started", "Work on your booking has started"},
	booking.StatusCompleted: {"Job Completed", "Your booking is complete"},
	booking.StatusCancelled: {"Booking Cancelled", "Your booking was cancelled"},
}

// Relay turns the raw change feed into at-most-one notification per
// actual status transition. It keeps {booking id -> last seen status};
// an id seen for the first time is recorded without emitting, which is
// what suppresses spurious notifications on initial load.
type Relay struct {
	mu     sync.Mutex
	mode   Mode
	last   map[string]booking.Status
	recent []Notification
	nextID int64
}

func NewRelay(mode Mode) *Relay {
	return &Relay{
		mode: mode,
		last: make(map[string]booking.Status),
	}
}

// Seed primes the status map from a bulk read, without emitting.
// Customer sessions call this on start; helper relays start empty.
func (r *Relay) Seed(bookings []booking.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range bookings {
		r.last[bookings[i].ID] = bookings[i].Status
	}
}

// Observe processes one feed event and returns the notification it
// produced, if any. Duplicate deliveries of the same status are
// no-ops.
func (r *Relay) Observe(ev booking.Event) (*Notification, bool) {
	if ev.Booking == nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := ev.Booking.ID
	status := ev.Booking.Status

	switch ev.Type {
	case booking.EventInsert:
		_, known := r.last[id]
		r.last[id] = status

		if r.mode == ModeHelper && !known && status == booking.StatusPending {
			return r.emit(id, "New Lead", "A new booking is waiting for a helper"), true
		}
		return nil, false

	case booking.EventUpdate:
		prev, known := r.last[id]
		r.last[id] = status

		if !known || prev == status {
			// first sight, or a duplicate/retry from the transport
			return nil, false
		}

		msg, ok := statusMessages[status]
		if !ok {
			return nil, false
		}
		return r.emit(id, msg.title, msg.body), true
	}

	return nil, false
}

func (r *Relay) emit(bookingID, title, body string) *Notification {
	r.nextID++
	n := Notification{
		ID:        r.nextID,
		BookingID: bookingID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}

	r.recent = append(r.recent, n)
	if len(r.recent) > maxRecent {
		r.recent = r.recent[len(r.recent)-maxRecent:]
	}
	return &n
}

// Recent returns the retained notifications, newest last.
func (r *Relay) Recent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.recent))
	copy(out, r.recent)
	return out
}

// MarkRead flags one retained notification as read.
func (r *Relay) MarkRead(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.recent {
		if r.recent[i].ID == id {
			r.recent[i].IsRead = true
			return true
		}
	}
	return false
}
