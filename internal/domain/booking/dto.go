package booking

import "time"

type CreateBookingRequest struct {
	ServiceID   int64      `json:"service_id" validate:"required,gt=0"`
	Address     string     `json:"address" validate:"required"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type BookingResponse struct {
	ID          string     `json:"id"`
	ServiceID   int64      `json:"service_id"`
	ServiceName string     `json:"service_name"`
	Address     string     `json:"address"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Status      Status     `json:"status"`
	HelperName  *string    `json:"helper_name,omitempty"`
	HelperPhone *string    `json:"helper_phone,omitempty"`
	EtaMinutes  *int       `json:"eta_minutes,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
