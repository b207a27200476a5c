package models

import (
	"strings"
	"time"
)

// Order statuses. "ready" is accepted as an input alias for
// OrderStatusReady and normalized before it reaches the table below.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusReady     = "ready_for_pickup"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions is the authoritative transition table. Cancellation is
// allowed from any non-terminal state.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// NormalizeOrderStatus lowercases the requested status and maps legacy
// aliases onto the canonical set. The empty string means "unknown status".
func NormalizeOrderStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case OrderStatusPending:
		return OrderStatusPending
	case OrderStatusConfirmed:
		return OrderStatusConfirmed
	case OrderStatusReady, "ready":
		return OrderStatusReady
	case OrderStatusCompleted:
		return OrderStatusCompleted
	case OrderStatusCancelled:
		return OrderStatusCancelled
	}
	return ""
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Both arguments must already be canonical.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether no further transitions exist.
func IsTerminalOrderStatus(s string) bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	BuyerProfileID  uint `gorm:"index;not null" json:"buyer_profile_id"`
	SellerProfileID uint `gorm:"index;not null" json:"seller_profile_id"`
	ProductID       uint `gorm:"index;not null" json:"product_id"`

	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	Status      string  `gorm:"size:50;not null;default:'pending'" json:"status"`

	PaymentMethod  string `gorm:"size:50" json:"payment_method"`
	PickupLocation string `gorm:"size:255" json:"pickup_location"`
	DeliveryNotes  string `gorm:"type:text" json:"delivery_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Buyer   Profile `gorm:"foreignKey:BuyerProfileID" json:"buyer"`
	Seller  Profile `gorm:"foreignKey:SellerProfileID" json:"seller"`
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

// OrderDetail is the flattened per-order view consumed by the order history
// pages: order fields plus the joined product, buyer and seller columns and
// whether a review exists for it.
type OrderDetail struct {
	OrderID        uint      `json:"order_id"`
	Quantity       int       `json:"quantity"`
	TotalAmount    float64   `json:"total_amount"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"payment_method"`
	PickupLocation string    `json:"pickup_location"`
	DeliveryNotes  string    `json:"delivery_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ProductID          uint     `json:"product_id"`
	ProductName        string   `json:"product_name"`
	ProductDescription string   `json:"product_description"`
	ProductPrice       *float64 `json:"product_price"`
	ProductImage       string   `json:"product_image"`
	ProductCondition   string   `json:"product_condition"`
	ProductCategory    string   `json:"product_category"`

	BuyerProfileID uint   `json:"buyer_profile_id"`
	BuyerFirstName string `json:"buyer_first_name"`
	BuyerLastName  string `json:"buyer_last_name"`
	BuyerEmail     string `json:"buyer_email"`
	BuyerPhone     string `json:"buyer_phone"`

	SellerProfileID uint   `json:"seller_profile_id"`
	SellerFirstName string `json:"seller_first_name"`
	SellerLastName  string `json:"seller_last_name"`
	SellerEmail     string `json:"seller_email"`
	SellerPhone     string `json:"seller_phone"`

	HasReview bool  `json:"has_review"`
	ReviewID  *uint `json:"review_id,omitempty"`
}
