package models

import "time"

// ConversationReport is filed by one user against another, optionally in the
// context of a product listing.
type ConversationReport struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	ReporterProfileID uint  `gorm:"index;not null" json:"reporter_profile_id"`
	ReportedProfileID uint  `gorm:"index;not null" json:"reported_profile_id"`
	ProductID         *uint `json:"product_id"`

	Reason string `gorm:"type:text;not null" json:"reason"`

	CreatedAt time.Time `json:"created_at"`

	Reporter Profile `gorm:"foreignKey:ReporterProfileID" json:"reporter"`
	Reported Profile `gorm:"foreignKey:ReportedProfileID" json:"reported"`
}
