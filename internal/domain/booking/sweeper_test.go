package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperCancelsOnlyStalePending(t *testing.T) {
	store := newFakeStore()
	feed := &recordingFeed{}
	svc := NewService(store, feed)
	ctx := context.Background()

	stale, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "34 Oak Avenue"})
	require.NoError(t, err)
	taken, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "56 Pine Road"})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, taken.ID, 10, "Tom", "+1 555 0101")
	require.NoError(t, err)

	// age the first booking past the TTL
	store.mu.Lock()
	store.rows[stale.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	store.mu.Unlock()

	sw := NewSweeper(store, feed, 15*time.Minute)
	require.NoError(t, sw.Sweep(ctx))

	got, err := store.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	got, err = store.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	got, err = store.GetByID(ctx, taken.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}

func TestSweeperPublishesUpdateForEachCancellation(t *testing.T) {
	store := newFakeStore()
	feed := &recordingFeed{}
	svc := NewService(store, feed)
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, 1, CreateParams{ServiceID: 3, Address: "34 Oak Avenue"})
	require.NoError(t, err)

	store.mu.Lock()
	store.rows[a.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	store.rows[b.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	store.mu.Unlock()

	before := len(feed.all())
	sw := NewSweeper(store, feed, 15*time.Minute)
	require.NoError(t, sw.Sweep(ctx))

	events := feed.all()[before:]
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, EventUpdate, ev.Type)
		assert.Equal(t, StatusPending, ev.Old.Status)
		assert.Equal(t, StatusCancelled, ev.Booking.Status)
	}
}

func TestSweeperNoopWhenNothingStale(t *testing.T) {
	store := newFakeStore()
	feed := &recordingFeed{}
	svc := NewService(store, feed)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateParams{ServiceID: 2, Address: "12 Main Street"})
	require.NoError(t, err)

	before := len(feed.all())
	sw := NewSweeper(store, feed, 15*time.Minute)
	require.NoError(t, sw.Sweep(ctx))
	assert.Len(t, feed.all(), before)
}
