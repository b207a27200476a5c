package models

import (
	"time"
)

// User is the login identity. Everything user-facing lives on Profile.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email    string `gorm:"unique;not null;size:255" json:"email"`
	Password string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
