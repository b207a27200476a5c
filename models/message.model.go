package models

import (
	"time"
)

type Message struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	SenderProfileID   uint  `gorm:"index;not null" json:"sender_profile_id"`
	ReceiverProfileID uint  `gorm:"index;not null" json:"receiver_profile_id"`
	ProductID         *uint `gorm:"index" json:"product_id"` // nil for general inquiries

	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `gorm:"size:500" json:"image_url,omitempty"`

	IsRead     bool `gorm:"default:false" json:"is_read"`
	IsDeleted  bool `gorm:"default:false" json:"is_deleted"`
	IsArchived bool `gorm:"default:false" json:"is_archived"`
	IsMuted    bool `gorm:"default:false" json:"is_muted"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Sender   Profile  `gorm:"foreignKey:SenderProfileID" json:"sender"`
	Receiver Profile  `gorm:"foreignKey:ReceiverProfileID" json:"receiver"`
	Product  *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ConversationSummary is one row of the derived conversations list: the
// user's messages grouped by (other user, product-or-none). Conversations
// are never stored.
type ConversationSummary struct {
	OtherUserID        uint                 `json:"other_user_id"`
	OtherUserFirstName string               `json:"other_user_first_name"`
	OtherUserLastName  string               `json:"other_user_last_name"`
	OtherUserEmail     string               `json:"other_user_email"`
	Product            *ConversationProduct `json:"product,omitempty"`
	LastMessageContent string               `json:"last_message_content"`
	LastMessageTime    time.Time            `json:"last_message_time"`
	UnreadCount        int64                `json:"unread_count"`
}

type ConversationProduct struct {
	ProductID uint     `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
}
