package handlers

import (
	"sort"

	"github.com/cdanpc/CampusMart/internal/notify"
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MessageHandler serves the flat message store and the conversation views
// derived from it. A conversation is only a grouping key, (other user,
// product-or-none); nothing about it is persisted.
type MessageHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

func NewMessageHandler(db *gorm.DB, notifier *notify.Notifier) *MessageHandler {
	return &MessageHandler{DB: db, Notifier: notifier}
}

// SendMessageRequest
type SendMessageRequest struct {
	ReceiverProfileID uint   `json:"receiver_profile_id"`
	ProductID         *uint  `json:"product_id"`
	Content           string `json:"content"`
	ImageURL          string `json:"image_url"`
}

// ConversationRequest identifies one conversation of the calling user.
type ConversationRequest struct {
	OtherUserID uint  `json:"other_user_id"`
	ProductID   *uint `json:"product_id"`
}

// SendMessage - POST /api/messages
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	senderID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message content is required"})
	}
	if req.ReceiverProfileID == 0 || req.ReceiverProfileID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receiver"})
	}

	var sender, receiver models.Profile
	if err := h.DB.First(&sender, senderID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Sender profile not found"})
	}
	if err := h.DB.First(&receiver, req.ReceiverProfileID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Receiver profile not found"})
	}

	if req.ProductID != nil && *req.ProductID != 0 {
		var product models.Product
		if err := h.DB.First(&product, *req.ProductID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product not found"})
		}
	} else {
		req.ProductID = nil
	}

	message := models.Message{
		SenderProfileID:   senderID,
		ReceiverProfileID: req.ReceiverProfileID,
		ProductID:         req.ProductID,
		Content:           req.Content,
		ImageURL:          req.ImageURL,
		IsRead:            false,
	}

	if err := h.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not send message"})
	}

	// Notify and push; neither may fail the send.
	preview := message.Content
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:47]) + "..."
	}
	h.Notifier.NewMessage(receiver.ID, message.ID, sender.FullName(), preview)

	h.DB.Preload("Sender").Preload("Receiver").Preload("Product").First(&message, message.ID)
	if h.Notifier.Hub != nil {
		h.Notifier.Hub.SendEventToProfile(receiver.ID, "message", message)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Message sent", "data": message})
}

// conversationMessages loads both directions of a conversation, optionally
// scoped to a product. productID nil means general inquiries only
// (product_id IS NULL).
func (h *MessageHandler) conversationMessages(user1ID, user2ID int, productID *int) ([]models.Message, error) {
	query := h.DB.Preload("Sender").Preload("Receiver").Preload("Product").
		Where("is_deleted = ?", false).
		Where("(sender_profile_id = ? AND receiver_profile_id = ?) OR (sender_profile_id = ? AND receiver_profile_id = ?)",
			user1ID, user2ID, user2ID, user1ID)

	if productID == nil || *productID == 0 {
		query = query.Where("product_id IS NULL")
	} else {
		query = query.Where("product_id = ?", *productID)
	}

	var messages []models.Message
	err := query.Order("created_at asc").Find(&messages).Error
	return messages, err
}

// GetConversation - GET /api/messages/conversation/:user1ID/:user2ID/product/:productID
func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	user1ID, err1 := c.ParamsInt("user1ID")
	user2ID, err2 := c.ParamsInt("user2ID")
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var productID *int
	if pid, err := c.ParamsInt("productID"); err == nil {
		productID = &pid
	}

	messages, err := h.conversationMessages(user1ID, user2ID, productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch conversation"})
	}

	return c.JSON(fiber.Map{"data": messages})
}

// GetGeneralConversation - GET /api/messages/conversation/:user1ID/:user2ID/general
func (h *MessageHandler) GetGeneralConversation(c *fiber.Ctx) error {
	user1ID, err1 := c.ParamsInt("user1ID")
	user2ID, err2 := c.ParamsInt("user2ID")
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	messages, err := h.conversationMessages(user1ID, user2ID, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch conversation"})
	}

	return c.JSON(fiber.Map{"data": messages})
}

// GetConversations - GET /api/messages/conversations/:userID
// Groups the user's messages into conversation summaries, newest first.
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var messages []models.Message
	if err := h.DB.Preload("Sender").Preload("Receiver").Preload("Product").
		Where("is_deleted = ?", false).
		Where("sender_profile_id = ? OR receiver_profile_id = ?", userID, userID).
		Order("created_at desc").
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch conversations"})
	}

	type groupKey struct {
		otherID   uint
		productID uint
	}
	grouped := make(map[groupKey][]models.Message)
	for _, msg := range messages {
		otherID := msg.SenderProfileID
		if otherID == uint(userID) {
			otherID = msg.ReceiverProfileID
		}
		var productID uint
		if msg.ProductID != nil {
			productID = *msg.ProductID
		}
		key := groupKey{otherID: otherID, productID: productID}
		grouped[key] = append(grouped[key], msg)
	}

	conversations := make([]models.ConversationSummary, 0, len(grouped))
	for _, msgs := range grouped {
		// msgs inherit the query's newest-first order.
		last := msgs[0]
		other := last.Sender
		if last.SenderProfileID == uint(userID) {
			other = last.Receiver
		}

		var unread int64
		for _, m := range msgs {
			if m.ReceiverProfileID == uint(userID) && !m.IsRead {
				unread++
			}
		}

		summary := models.ConversationSummary{
			OtherUserID:        other.ID,
			OtherUserFirstName: other.FirstName,
			OtherUserLastName:  other.LastName,
			OtherUserEmail:     other.Email,
			LastMessageContent: last.Content,
			LastMessageTime:    last.CreatedAt,
			UnreadCount:        unread,
		}
		if last.Product != nil {
			summary.Product = &models.ConversationProduct{
				ProductID: last.Product.ID,
				Name:      last.Product.Name,
				Price:     last.Product.Price,
			}
		}
		conversations = append(conversations, summary)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})

	return c.JSON(fiber.Map{"data": conversations})
}

// GetUnreadCount - GET /api/messages/unread-count/:userID
func (h *MessageHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var count int64
	h.DB.Model(&models.Message{}).
		Where("receiver_profile_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Count(&count)

	return c.JSON(fiber.Map{"unread_count": count})
}

// MarkMessageRead - PATCH /api/messages/:id/read
// Only the receiver may mark a message read.
func (h *MessageHandler) MarkMessageRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var message models.Message
	if err := h.DB.First(&message, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
	}
	if message.ReceiverProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	if err := h.DB.Model(&message).Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update message"})
	}

	return c.JSON(fiber.Map{"message": "Message marked as read"})
}

// DeleteMessage - DELETE /api/messages/:id
// Soft delete of a single message by either participant.
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var message models.Message
	if err := h.DB.First(&message, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
	}
	if message.SenderProfileID != profileID && message.ReceiverProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	if err := h.DB.Model(&message).Update("is_deleted", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete message"})
	}

	return c.JSON(fiber.Map{"message": "Message deleted"})
}

// conversationUpdate applies a column update to every message of the
// caller's conversation with the given partner and product scope.
func (h *MessageHandler) conversationUpdate(c *fiber.Ctx, column string, value interface{}, incomingOnly bool) error {
	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req ConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.OtherUserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "other_user_id is required"})
	}

	query := h.DB.Model(&models.Message{})
	if incomingOnly {
		query = query.Where("sender_profile_id = ? AND receiver_profile_id = ?", req.OtherUserID, profileID)
	} else {
		query = query.Where("(sender_profile_id = ? AND receiver_profile_id = ?) OR (sender_profile_id = ? AND receiver_profile_id = ?)",
			profileID, req.OtherUserID, req.OtherUserID, profileID)
	}
	if req.ProductID == nil || *req.ProductID == 0 {
		query = query.Where("product_id IS NULL")
	} else {
		query = query.Where("product_id = ?", *req.ProductID)
	}

	if err := query.Update(column, value).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update conversation"})
	}

	return c.JSON(fiber.Map{"message": "Conversation updated"})
}

// MarkConversationRead - PATCH /api/messages/conversation/read
// Marks the partner's incoming messages as read.
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	return h.conversationUpdate(c, "is_read", true, true)
}

// ArchiveConversation - PATCH /api/messages/conversation/archive
func (h *MessageHandler) ArchiveConversation(c *fiber.Ctx) error {
	return h.conversationUpdate(c, "is_archived", true, false)
}

// MuteConversation - PATCH /api/messages/conversation/mute
func (h *MessageHandler) MuteConversation(c *fiber.Ctx) error {
	return h.conversationUpdate(c, "is_muted", true, false)
}

// DeleteConversation - DELETE /api/messages/conversation
// Soft delete: rows are flagged, not removed.
func (h *MessageHandler) DeleteConversation(c *fiber.Ctx) error {
	return h.conversationUpdate(c, "is_deleted", true, false)
}
