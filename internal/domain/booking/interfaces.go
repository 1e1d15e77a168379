package booking

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository defines booking data access. Accept, Advance and Cancel
// are conditional updates: they apply only if the row's current status
// still matches the expected one, which is what makes concurrent
// accept/cancel attempts safe without explicit locking.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Booking, error)
	ListPending(ctx context.Context) ([]Booking, error)

	// Accept performs pending -> confirmed and sets the helper fields
	// in a single conditional write. Returns (false, nil) when the
	// booking was no longer pending.
	Accept(ctx context.Context, id string, helperID int64, helperName, helperPhone string, etaMinutes int) (bool, error)

	// Advance performs from -> to conditioned on status == from.
	Advance(ctx context.Context, id string, from, to Status) (bool, error)

	// Cancel cancels conditioned on status == pending.
	Cancel(ctx context.Context, id string) (bool, error)

	// CancelStalePending cancels bookings pending since before cutoff
	// and returns their ids.
	CancelStalePending(ctx context.Context, cutoff time.Time) ([]string, error)

	DB() *gorm.DB
}

// Feed receives a row-change event after every successful write.
type Feed interface {
	BookingCreated(b *Booking)
	BookingUpdated(old, b *Booking)
}
