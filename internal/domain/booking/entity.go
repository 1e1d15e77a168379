package booking

import "time"

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusEnRoute   Status = "en_route"
	StatusArrived   Status = "arrived"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// progression is the forward path a helper drives a job through.
// Cancellation is handled separately: it is reachable from any
// non-terminal state, never from a terminal one.
var progression = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusEnRoute,
	StatusEnRoute:   StatusArrived,
	StatusArrived:   StatusOngoing,
	StatusOngoing:   StatusCompleted,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusEnRoute,
		StatusArrived, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the forward-progression successor of s.
func (s Status) Next() (Status, bool) {
	n, ok := progression[s]
	return n, ok
}

// CanTransitionTo reports whether s -> next is an edge of the
// lifecycle graph. No skipping of intermediate states is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return progression[s] == next
}

// Booking is a customer's request for a service instance.
//
// The Helper* fields and EtaMinutes are nil until a helper accepts;
// they are set exactly once, atomically with the pending -> confirmed
// transition, and never cleared afterwards.
type Booking struct {
	ID          string     `json:"id" gorm:"column:id;primaryKey"`
	CustomerID  int64      `json:"customer_id" gorm:"column:customer_id;index"`
	ServiceID   int64      `json:"service_id" gorm:"column:service_id"`
	Address     string     `json:"address" gorm:"column:address;type:text"`
	Lat         *float64   `json:"lat,omitempty" gorm:"column:lat"`
	Lng         *float64   `json:"lng,omitempty" gorm:"column:lng"`
	Status      Status     `json:"status" gorm:"column:status;index"`
	HelperID    *int64     `json:"helper_id,omitempty" gorm:"column:helper_id;index"`
	HelperName  *string    `json:"helper_name,omitempty" gorm:"column:helper_name"`
	HelperPhone *string    `json:"helper_phone,omitempty" gorm:"column:helper_phone"`
	EtaMinutes  *int       `json:"eta_minutes,omitempty" gorm:"column:eta_minutes"`
	ScheduledAt time.Time  `json:"scheduled_at" gorm:"column:scheduled_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
}

func (Booking) TableName() string { return "bookings" }

// Assigned reports whether a helper has been attached to the booking.
func (b *Booking) Assigned() bool {
	return b.HelperID != nil
}

// AssignedTo reports whether the booking belongs to the given helper.
func (b *Booking) AssignedTo(helperID int64) bool {
	return b.HelperID != nil && *b.HelperID == helperID
}
