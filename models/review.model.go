package models

import (
	"time"
)

type Review struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	ReviewerProfileID uint  `gorm:"index;not null" json:"reviewer_profile_id"`
	SellerProfileID   uint  `gorm:"index;not null" json:"seller_profile_id"`
	ProductID         *uint `json:"product_id"`
	OrderID           *uint `gorm:"index" json:"order_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1 to 5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Reviewer Profile  `gorm:"foreignKey:ReviewerProfileID" json:"reviewer"`
	Seller   Profile  `gorm:"foreignKey:SellerProfileID" json:"seller"`
	Product  *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ReviewDetail is a review joined with its reviewer's identity, used by the
// paginated seller reviews endpoint.
type ReviewDetail struct {
	ID                uint      `json:"id"`
	Rating            int       `json:"rating"`
	Comment           string    `json:"comment"`
	CreatedAt         time.Time `json:"created_at"`
	ReviewerProfileID uint      `json:"reviewer_profile_id"`
	ReviewerFirstName string    `json:"reviewer_first_name"`
	ReviewerLastName  string    `json:"reviewer_last_name"`
	ProductID         *uint     `json:"product_id,omitempty"`
	ProductName       string    `json:"product_name,omitempty"`
}
