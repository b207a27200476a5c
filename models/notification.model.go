package models

import "time"

// Notification types. RelatedID/RelatedType carry the deep-link target
// (order id, message id, ...).
const (
	NotifOrderPlaced    = "ORDER_PLACED"
	NotifOrderConfirmed = "ORDER_CONFIRMED"
	NotifOrderReady     = "ORDER_READY"
	NotifOrderCompleted = "ORDER_COMPLETED"
	NotifOrderCancelled = "ORDER_CANCELLED"
	NotifMessage        = "MESSAGE"
	NotifTradeOffer     = "TRADE_OFFER"
	NotifTradeAccepted  = "TRADE_ACCEPTED"
	NotifTradeRejected  = "TRADE_REJECTED"

	RelatedOrder      = "ORDER"
	RelatedMessage    = "MESSAGE"
	RelatedTradeOffer = "TRADE_OFFER"
)

type Notification struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index;not null" json:"profile_id"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`

	RelatedID   *uint  `json:"related_id"`
	RelatedType string `gorm:"size:50" json:"related_type"`

	IsRead bool `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}
