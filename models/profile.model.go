package models

import (
	"time"
)

type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	FirstName       string `gorm:"size:100;not null" json:"first_name"`
	LastName        string `gorm:"size:100;not null" json:"last_name"`
	Email           string `gorm:"size:255;not null" json:"email"`
	PhoneNumber     string `gorm:"size:20;not null" json:"phone_number"`
	InstagramHandle string `gorm:"size:100" json:"instagram_handle"`
	AcademicLevel   string `gorm:"size:50;not null" json:"academic_level"`
	Bio             string `gorm:"type:text" json:"bio"`
	ProfilePicture  string `gorm:"size:500" json:"profile_picture"`

	// Aggregates maintained by the review handlers.
	SellerRating float64 `gorm:"default:0" json:"seller_rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName is used for notification copy.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
