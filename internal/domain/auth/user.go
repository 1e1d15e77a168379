package auth

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleHelper   Role = "helper"
)

// User is an authenticated account. Customers own bookings; helpers
// accept leads and drive jobs to completion.
type User struct {
	ID           int64     `json:"id" gorm:"column:id;primaryKey"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Role         Role      `json:"role" gorm:"column:role"`
	Name         string    `json:"name" gorm:"column:name"`
	Phone        string    `json:"phone" gorm:"column:phone"`
	Address      string    `json:"address" gorm:"column:address;type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }
