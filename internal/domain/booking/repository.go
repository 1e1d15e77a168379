package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&b)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &b, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Booking, error) {
	var rows []Booking
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *bookingRepository) ListPending(ctx context.Context) ([]Booking, error) {
	var rows []Booking
	tx := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// Accept is the first-acceptor-wins write. The WHERE clause on the
// current status is what resolves concurrent accepts: the database
// serializes conflicting writes to the row, so exactly one UPDATE
// matches and every other attempt sees zero rows affected.
func (r *bookingRepository) Accept(ctx context.Context, id string, helperID int64, helperName, helperPhone string, etaMinutes int) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":       string(StatusConfirmed),
			"helper_id":    helperID,
			"helper_name":  helperName,
			"helper_phone": helperPhone,
			"eta_minutes":  etaMinutes,
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *bookingRepository) Advance(ctx context.Context, id string, from, to Status) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Cancel is conditioned on the booking still being pending, so a
// cancel racing a helper's accept has exactly one winner.
func (r *bookingRepository) Cancel(ctx context.Context, id string) (bool, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":       string(StatusCancelled),
			"cancelled_at": &now,
			"updated_at":   now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *bookingRepository) CancelStalePending(ctx context.Context, cutoff time.Time) ([]string, error) {
	var candidates []string
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Pluck("id", &candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	err = r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id IN ? AND status = ?", candidates, StatusPending).
		Updates(map[string]any{
			"status":       string(StatusCancelled),
			"cancelled_at": &now,
			"updated_at":   now,
		}).Error
	if err != nil {
		return nil, err
	}

	// a candidate can be accepted between the pluck and the guarded
	// update; report only the rows that actually ended up cancelled
	var ids []string
	err = r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id IN ? AND status = ?", candidates, StatusCancelled).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *bookingRepository) DB() *gorm.DB {
	return r.db
}
