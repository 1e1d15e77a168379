package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

/* ==================== TEST DOUBLES ==================== */

// fakeStore is an in-memory Repository whose conditional updates are
// serialized by a mutex, the way the real database serializes
// conflicting writes to one row.
type fakeStore struct {
	mu   sync.Mutex
	rows map[string]*Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*Booking)}
}

func (f *fakeStore) Create(_ context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListByCustomer(_ context.Context, customerID int64) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.rows {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPending(_ context.Context) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.rows {
		if b.Status == StatusPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) Accept(_ context.Context, id string, helperID int64, helperName, helperPhone string, etaMinutes int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || b.Status != StatusPending {
		return false, nil
	}
	b.Status = StatusConfirmed
	b.HelperID = &helperID
	b.HelperName = &helperName
	b.HelperPhone = &helperPhone
	b.EtaMinutes = &etaMinutes
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeStore) Advance(_ context.Context, id string, from, to Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeStore) Cancel(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || b.Status != StatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return true, nil
}

func (f *fakeStore) CancelStalePending(_ context.Context, cutoff time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	now := time.Now().UTC()
	for _, b := range f.rows {
		if b.Status == StatusPending && b.CreatedAt.Before(cutoff) {
			b.Status = StatusCancelled
			b.CancelledAt = &now
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) DB() *gorm.DB { return nil }

// recordingFeed captures published events.
type recordingFeed struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingFeed) BookingCreated(b *Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Type: EventInsert, Booking: b})
}

func (r *recordingFeed) BookingUpdated(old, b *Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Type: EventUpdate, Booking: b, Old: old})
}

func (r *recordingFeed) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

/* ==================== TESTS ==================== */

func newTestService() (*Service, *fakeStore, *recordingFeed) {
	store := newFakeStore()
	feed := &recordingFeed{}
	return NewService(store, feed), store, feed
}

func TestServiceCreate(t *testing.T) {
	svc, _, feed := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.False(t, b.ScheduledAt.IsZero())
	assert.Nil(t, b.HelperID)

	events := feed.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventInsert, events[0].Type)
	assert.Equal(t, b.ID, events[0].Booking.ID)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateParams{ServiceID: 0, Address: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceAcceptPopulatesHelperAndEta(t *testing.T) {
	svc, _, feed := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	got, err := svc.Accept(ctx, b.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	require.NotNil(t, got.HelperName)
	assert.Equal(t, "Tom", *got.HelperName)
	require.NotNil(t, got.EtaMinutes)
	assert.GreaterOrEqual(t, *got.EtaMinutes, etaMinMinutes)
	assert.LessOrEqual(t, *got.EtaMinutes, etaMaxMinutes)

	events := feed.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventUpdate, events[1].Type)
	assert.Equal(t, StatusPending, events[1].Old.Status)
	assert.Equal(t, StatusConfirmed, events[1].Booking.Status)
}

func TestServiceAcceptRaceExactlyOneWinner(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	const helpers = 8

	var wg sync.WaitGroup
	results := make([]error, helpers)
	for i := 0; i < helpers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Accept(ctx, b.ID, int64(100+i), "Helper", "+1 555 0000")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyTaken)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent accept must succeed")

	final, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, final.Status)
	assert.NotNil(t, final.HelperID)
}

func TestServiceAcceptAlreadyTaken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, b.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, b.ID, 11, "Ana", "+1 555 0202")
	assert.ErrorIs(t, err, ErrAlreadyTaken)
}

func TestServiceAdvanceFullProgression(t *testing.T) {
	svc, _, feed := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, b.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)

	want := []Status{StatusEnRoute, StatusArrived, StatusOngoing, StatusCompleted}
	for _, expected := range want {
		got, err := svc.Advance(ctx, b.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, expected, got.Status)
	}

	// terminal: no further advance
	_, err = svc.Advance(ctx, b.ID, 10)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// one insert + accept + four advances
	assert.Len(t, feed.all(), 6)
}

func TestServiceAdvanceOnlyAssignedHelper(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	// not assigned yet
	_, err = svc.Advance(ctx, b.ID, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Accept(ctx, b.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)

	// a different helper cannot drive the job
	_, err = svc.Advance(ctx, b.ID, 11)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestServiceCancel(t *testing.T) {
	svc, _, feed := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	got, err := svc.Cancel(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	events := feed.all()
	require.Len(t, events, 2)
	assert.Equal(t, StatusCancelled, events[1].Booking.Status)
}

func TestServiceCancelOwnershipAndRace(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	// not the owner
	_, err = svc.Cancel(ctx, b.ID, 99)
	assert.ErrorIs(t, err, ErrForbidden)

	// a helper got there first: cancel reports the booking is gone
	_, err = svc.Accept(ctx, b.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, 1)
	assert.ErrorIs(t, err, ErrNotCancellable)
}
