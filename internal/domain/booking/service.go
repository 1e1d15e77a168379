package booking

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ETA bounds in minutes, assigned once at acceptance. A display hint,
// not an SLA; never recomputed afterwards.
const (
	etaMinMinutes = 10
	etaMaxMinutes = 40
)

type Service struct {
	repo Repository
	feed Feed

	// etaFn is swappable in tests
	etaFn func() int
}

func NewService(repo Repository, feed Feed) *Service {
	return &Service{
		repo: repo,
		feed: feed,
		etaFn: func() int {
			return etaMinMinutes + rand.Intn(etaMaxMinutes-etaMinMinutes+1)
		},
	}
}

type CreateParams struct {
	ServiceID   int64
	Address     string
	Lat         *float64
	Lng         *float64
	ScheduledAt time.Time
}

func (s *Service) Create(ctx context.Context, customerID int64, p CreateParams) (*Booking, error) {
	if p.ServiceID <= 0 || p.Address == "" {
		return nil, ErrValidation
	}

	now := time.Now().UTC()
	scheduled := p.ScheduledAt
	if scheduled.IsZero() {
		scheduled = now
	}

	b := &Booking{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ServiceID:   p.ServiceID,
		Address:     p.Address,
		Lat:         p.Lat,
		Lng:         p.Lng,
		Status:      StatusPending,
		ScheduledAt: scheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.feed.BookingCreated(b)
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListLeads returns every booking still waiting for a helper.
func (s *Service) ListLeads(ctx context.Context) ([]Booking, error) {
	return s.repo.ListPending(ctx)
}

// Accept attempts the pending -> confirmed transition on behalf of a
// helper. Losing the race to another helper (or to a customer cancel)
// is reported as ErrAlreadyTaken, not as a fault.
func (s *Service) Accept(ctx context.Context, id string, helperID int64, helperName, helperPhone string) (*Booking, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old.Status != StatusPending {
		return nil, ErrAlreadyTaken
	}

	ok, err := s.repo.Accept(ctx, id, helperID, helperName, helperPhone, s.etaFn())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyTaken
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.feed.BookingUpdated(old, updated)
	return updated, nil
}

// Advance moves an assigned booking one step along the forward
// progression (confirmed -> en_route -> arrived -> ongoing ->
// completed). Only the assigned helper may advance.
func (s *Service) Advance(ctx context.Context, id string, helperID int64) (*Booking, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !old.AssignedTo(helperID) {
		return nil, ErrForbidden
	}
	if old.Status == StatusPending {
		return nil, ErrInvalidStatusTransition
	}

	next, ok := old.Status.Next()
	if !ok {
		return nil, ErrInvalidStatusTransition
	}

	applied, err := s.repo.Advance(ctx, id, old.Status, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone else moved the row first; the caller should re-read.
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.feed.BookingUpdated(old, updated)
	return updated, nil
}

// Cancel withdraws a pending booking on behalf of its owner. The
// conditional write means a cancel racing a helper's accept has
// exactly one winner; the loser is told the booking is gone.
func (s *Service) Cancel(ctx context.Context, id string, customerID int64) (*Booking, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if old.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	ok, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotCancellable
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.feed.BookingUpdated(old, updated)
	return updated, nil
}
