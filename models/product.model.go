package models

import (
	"time"
)

type Product struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	SellerProfileID uint `gorm:"index;not null" json:"seller_profile_id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Nullable: trade-only listings carry no asking price.
	Price *float64 `json:"price"`

	CategoryID  *uint  `gorm:"index" json:"category_id"`
	BrandType   string `gorm:"size:100" json:"brand_type"`
	Condition   string `gorm:"size:50" json:"condition"`
	ContactInfo string `gorm:"type:text" json:"contact_info"`

	IsAvailable bool `gorm:"default:true" json:"is_available"`
	TradeOnly   bool `gorm:"default:false" json:"trade_only"`
	ViewCount   int  `gorm:"default:0" json:"view_count"`
	LikeCount   int  `gorm:"default:0" json:"like_count"`
	Stock       int  `gorm:"default:1" json:"stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Seller   Profile        `gorm:"foreignKey:SellerProfileID" json:"seller"`
	Category *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

// PrimaryImageURL returns the primary-flagged image, falling back to the
// first image when none is flagged and to "" when the listing has no images.
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
