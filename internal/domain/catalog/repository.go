package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

// FallbackServiceName labels a booking whose service record is missing
// or unresolvable. Display degrades instead of failing the view.
const FallbackServiceName = "Home Service"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, category string) ([]Service, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []Service
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var s Service
	tx := r.db.WithContext(ctx).First(&s, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, tx.Error
	}
	return &s, nil
}

// NameByID resolves a display name, falling back to a generic label
// when the record is missing.
func (r *Repository) NameByID(ctx context.Context, id int64) string {
	s, err := r.GetByID(ctx, id)
	if err != nil || s.Name == "" {
		return FallbackServiceName
	}
	return s.Name
}
