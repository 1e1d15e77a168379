package notification

import "time"

// Notification is ephemeral and session-local: it is derived from the
// change feed and never persisted.
type Notification struct {
	ID        int64     `json:"id"`
	BookingID string    `json:"booking_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
