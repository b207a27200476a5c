package handlers

import (
	"github.com/cdanpc/CampusMart/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// GetByProfile - GET /api/notifications/profile/:profileID
// ?type=ORDER_PLACED narrows to one notification type.
func (h *NotificationHandler) GetByProfile(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	query := h.DB.Where("profile_id = ?", profileID)
	if notifType := c.Query("type"); notifType != "" {
		query = query.Where("type = ?", notifType)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch notifications"})
	}

	return c.JSON(fiber.Map{"data": notifications})
}

// GetUnread - GET /api/notifications/profile/:profileID/unread
func (h *NotificationHandler) GetUnread(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var notifications []models.Notification
	if err := h.DB.Where("profile_id = ? AND is_read = ?", profileID, false).
		Order("created_at desc").Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch notifications"})
	}

	return c.JSON(fiber.Map{"data": notifications})
}

// GetUnreadCount - GET /api/notifications/profile/:profileID/unread/count
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var count int64
	h.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Count(&count)

	return c.JSON(fiber.Map{"unread_count": count})
}

// MarkRead - PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	var notification models.Notification
	if err := h.DB.First(&notification, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	if err := h.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update notification"})
	}
	notification.IsRead = true

	return c.JSON(fiber.Map{"message": "Notification marked as read", "data": notification})
}

// MarkAllRead - PATCH /api/notifications/profile/:profileID/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	if err := h.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update notifications"})
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// Delete - DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	if err := h.DB.Delete(&models.Notification{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete notification"})
	}

	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

// DeleteAllForProfile - DELETE /api/notifications/profile/:profileID
func (h *NotificationHandler) DeleteAllForProfile(c *fiber.Ctx) error {
	profileID, err := c.ParamsInt("profileID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	if err := h.DB.Where("profile_id = ?", profileID).
		Delete(&models.Notification{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete notifications"})
	}

	return c.JSON(fiber.Map{"message": "Notifications deleted"})
}
