package catalog

import "time"

// Service is a read-mostly catalog entry. Bookings reference it by id;
// the booking flow never mutates it.
type Service struct {
	ID          int64     `json:"id" gorm:"column:id;primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Category    string    `json:"category" gorm:"column:category;index"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	Icon        string    `json:"icon" gorm:"column:icon"`
	PriceRange  string    `json:"price_range" gorm:"column:price_range"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Service) TableName() string { return "services" }
