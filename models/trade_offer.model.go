package models

import (
	"strings"
	"time"
)

// Trade offer statuses. PENDING is the only state with outgoing
// transitions; the other three are terminal.
const (
	TradeOfferPending   = "PENDING"
	TradeOfferAccepted  = "ACCEPTED"
	TradeOfferRejected  = "REJECTED"
	TradeOfferWithdrawn = "WITHDRAWN"
)

// NormalizeTradeOfferStatus uppercases the requested status. The empty
// string means "unknown status".
func NormalizeTradeOfferStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TradeOfferPending:
		return TradeOfferPending
	case TradeOfferAccepted:
		return TradeOfferAccepted
	case TradeOfferRejected:
		return TradeOfferRejected
	case TradeOfferWithdrawn:
		return TradeOfferWithdrawn
	}
	return ""
}

// CanTransitionTradeOffer reports whether an offer may move between the two
// canonical statuses. Role checks (seller vs offerer) live in the handler.
func CanTransitionTradeOffer(from, to string) bool {
	if from != TradeOfferPending {
		return false
	}
	return to == TradeOfferAccepted || to == TradeOfferRejected || to == TradeOfferWithdrawn
}

// IsTerminalTradeOfferStatus reports whether the offer can no longer change.
func IsTerminalTradeOfferStatus(s string) bool {
	return s == TradeOfferAccepted || s == TradeOfferRejected || s == TradeOfferWithdrawn
}

type TradeOffer struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	ProductID        uint `gorm:"index;not null" json:"product_id"`
	OffererProfileID uint `gorm:"index;not null" json:"offerer_profile_id"`

	OfferedPrice     float64  `gorm:"not null" json:"offered_price"`
	TradeDescription string   `gorm:"type:text" json:"trade_description"`
	ItemName         string   `gorm:"size:255" json:"item_name"`
	ItemEstimated    *float64 `gorm:"column:item_estimated_value" json:"item_estimated_value"`
	ItemCondition    string   `gorm:"size:50" json:"item_condition"`
	ItemImageURL     string   `gorm:"size:500" json:"item_image_url"`
	CashComponent    *float64 `json:"cash_component"`

	Status string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
	Offerer Profile `gorm:"foreignKey:OffererProfileID" json:"offerer"`
}
