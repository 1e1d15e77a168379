package lead

import (
	"time"

	"homeserve/internal/domain/booking"
)

// DefaultTTL is the countdown window a helper gets to act on the
// currently displayed lead.
const DefaultTTL = 30 * time.Second

// Lead is a pending booking as offered to one helper. It exists only
// in that helper's queue; expiring it never touches the store.
type Lead struct {
	Booking    booking.Booking `json:"booking"`
	EnqueuedAt time.Time       `json:"enqueued_at"`

	// ExpiresAt is set when the lead becomes current; zero while it
	// waits in the queue behind another lead.
	ExpiresAt time.Time `json:"expires_at"`
}
