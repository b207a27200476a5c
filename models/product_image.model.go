package models

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	ImageURL  string `gorm:"type:text;not null" json:"image_url"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
}
