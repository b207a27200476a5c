package models

import "time"

// ProductLike records one like per (product, profile). The unique index is
// what makes the like toggle safe against double submits.
type ProductLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_profile" json:"product_id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_product_profile" json:"profile_id"`
	LikedAt   time.Time `gorm:"autoCreateTime" json:"liked_at"`
}
