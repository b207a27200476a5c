package handlers

import (
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// CreateReportRequest
type CreateReportRequest struct {
	ReportedProfileID uint   `json:"reported_profile_id"`
	ProductID         *uint  `json:"product_id"`
	Reason            string `json:"reason"`
}

// CreateReport - POST /api/reports
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	reporterID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reason is required"})
	}
	if req.ReportedProfileID == 0 || req.ReportedProfileID == reporterID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reported user"})
	}

	var reported models.Profile
	if err := h.DB.First(&reported, req.ReportedProfileID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reported user not found"})
	}

	report := models.ConversationReport{
		ReporterProfileID: reporterID,
		ReportedProfileID: req.ReportedProfileID,
		ProductID:         req.ProductID,
		Reason:            req.Reason,
	}

	if err := h.DB.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create report"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report submitted", "data": report})
}

// GetReports - GET /api/reports
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	var reports []models.ConversationReport
	if err := h.DB.Preload("Reporter").Preload("Reported").
		Order("created_at desc").Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reports"})
	}
	return c.JSON(fiber.Map{"data": reports})
}
