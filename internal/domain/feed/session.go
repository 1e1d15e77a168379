package feed

import (
	"context"
	"sync"
	"time"

	"homeserve/internal/domain/auth"
	"homeserve/internal/domain/booking"
	"homeserve/internal/domain/lead"
	"homeserve/internal/domain/notification"
	"homeserve/internal/domain/track"
)

// Frame is one message pushed to a connected client.
type Frame struct {
	Type         string                     `json:"type"`
	Booking      *booking.Booking           `json:"booking,omitempty"`
	Notification *notification.Notification `json:"notification,omitempty"`
	Lead         *lead.Lead                 `json:"lead,omitempty"`
	BookingID    string                     `json:"booking_id,omitempty"`
	Position     *track.Position            `json:"position,omitempty"`
	Arrived      bool                       `json:"arrived,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

const (
	FrameBookingUpdate = "booking_update"
	FrameNotification  = "notification"
	FrameLead          = "lead"
	FrameLeadExpired   = "lead_expired"
	FramePosition      = "position"
	FramePong          = "pong"
	FrameError         = "error"
)

// BookingSource is the bulk-read side of the store a session seeds
// from. booking.Service satisfies it.
type BookingSource interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]booking.Booking, error)
	ListLeads(ctx context.Context) ([]booking.Booking, error)
}

// Session is the per-connection state: one feed subscription, one
// relay, and for helpers one lead queue. It is created on connect and
// must be Closed on disconnect; nothing about it is process-global.
type Session struct {
	userID int64
	role   auth.Role

	sub   *Subscription
	relay *notification.Relay
	queue *lead.Queue

	frames chan Frame

	mu       sync.Mutex
	trackers map[string]*track.Tracker

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession subscribes to the bus and seeds the session's state.
// Customer sessions seed the relay from a bulk read of their own
// bookings, so reconnecting restores the no-spurious-notification
// guarantee. Helper relays intentionally start empty; their queue is
// primed with the bookings currently waiting for a helper.
func NewSession(ctx context.Context, userID int64, role auth.Role, bus *Bus, src BookingSource, acceptor lead.Acceptor, leadTTL time.Duration) (*Session, error) {
	s := &Session{
		userID:   userID,
		role:     role,
		frames:   make(chan Frame, subBuffer),
		trackers: make(map[string]*track.Tracker),
		done:     make(chan struct{}),
	}

	if role == auth.RoleHelper {
		s.relay = notification.NewRelay(notification.ModeHelper)
		s.queue = lead.NewQueue(acceptor, leadTTL, s.onQueueEvent)

		pending, err := src.ListLeads(ctx)
		if err != nil {
			return nil, err
		}
		for i := range pending {
			s.queue.Push(pending[i])
		}
	} else {
		s.relay = notification.NewRelay(notification.ModeCustomer)

		mine, err := src.ListByCustomer(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.relay.Seed(mine)
	}

	// subscribe last so seeding cannot race ahead of the snapshot
	s.sub = bus.Subscribe()
	return s, nil
}

// Frames is the outbound stream the transport writes to the client.
func (s *Session) Frames() <-chan Frame { return s.frames }

// Queue exposes the helper's lead queue; nil for customers.
func (s *Session) Queue() *lead.Queue { return s.queue }

// Relay exposes the session's notification relay.
func (s *Session) Relay() *notification.Relay { return s.relay }

// Run consumes the feed until the subscription or session closes.
func (s *Session) Run() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.sub.C:
			if !ok {
				return
			}
			s.handle(ev)
		}
	}
}

// Close tears the session down: subscription, queue countdown and
// trackers are all released. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.sub.Close()
		if s.queue != nil {
			s.queue.Close()
		}

		s.mu.Lock()
		for _, t := range s.trackers {
			t.Stop()
		}
		s.trackers = nil
		s.mu.Unlock()
	})
}

func (s *Session) handle(ev booking.Event) {
	if ev.Booking == nil {
		return
	}

	switch s.role {
	case auth.RoleHelper:
		s.handleHelper(ev)
	default:
		s.handleCustomer(ev)
	}
}

func (s *Session) handleCustomer(ev booking.Event) {
	b := ev.Booking
	if b.CustomerID != s.userID {
		return
	}

	s.push(Frame{Type: FrameBookingUpdate, Booking: b})

	if n, ok := s.relay.Observe(ev); ok {
		s.push(Frame{Type: FrameNotification, Notification: n})
	}

	if ev.Type == booking.EventUpdate {
		s.updateTracking(b)
	}
}

func (s *Session) handleHelper(ev booking.Event) {
	b := ev.Booking

	if n, ok := s.relay.Observe(ev); ok {
		s.push(Frame{Type: FrameNotification, Notification: n})
	}

	switch ev.Type {
	case booking.EventInsert:
		if b.Status == booking.StatusPending {
			s.queue.Push(*b)
		}
	case booking.EventUpdate:
		// a lead someone claimed or the customer withdrew is gone
		if b.Status != booking.StatusPending {
			s.queue.Remove(b.ID)
		}
		if b.AssignedTo(s.userID) {
			s.push(Frame{Type: FrameBookingUpdate, Booking: b})
		}
	}
}

// updateTracking starts the simulated marker when the helper heads
// out and stops it once the job moves past en_route.
func (s *Session) updateTracking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trackers == nil {
		return
	}

	t, active := s.trackers[b.ID]

	if b.Status == booking.StatusEnRoute && !active && b.Lat != nil && b.Lng != nil {
		id := b.ID
		tracker := track.NewTracker(track.Position{Lat: *b.Lat, Lng: *b.Lng}, 2*time.Second, func(pos track.Position, arrived bool) {
			p := pos
			s.push(Frame{Type: FramePosition, BookingID: id, Position: &p, Arrived: arrived})
		})
		s.trackers[id] = tracker
		go tracker.Run()
		return
	}

	if active && b.Status != booking.StatusEnRoute {
		t.Stop()
		delete(s.trackers, b.ID)
	}
}

func (s *Session) onQueueEvent(ev lead.Event) {
	switch ev.Type {
	case lead.EventCurrent:
		l := ev.Lead
		s.push(Frame{Type: FrameLead, Lead: &l})
	case lead.EventExpired:
		s.push(Frame{Type: FrameLeadExpired, BookingID: ev.Lead.Booking.ID})
	}
}

// push never blocks; a client that cannot keep up loses frames, the
// same policy the bus applies to slow subscribers.
func (s *Session) push(f Frame) {
	select {
	case <-s.done:
	case s.frames <- f:
	default:
	}
}
