package handlers

import (
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// UpdateProfileRequest carries the mutable profile fields. Email is
// immutable; it stays tied to the login identity.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	PhoneNumber     *string `json:"phone_number"`
	InstagramHandle *string `json:"instagram_handle"`
	AcademicLevel   *string `json:"academic_level"`
	Bio             *string `json:"bio"`
}

// SellerInfo aggregates the profile with its listing counts for the seller
// profile page.
type SellerInfo struct {
	ProfileID         uint    `json:"profile_id"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	PhoneNumber       string  `json:"phone_number"`
	InstagramHandle   string  `json:"instagram_handle"`
	CreatedAt         string  `json:"created_at"`
	SellerRating      float64 `json:"seller_rating"`
	TotalReviews      int     `json:"total_reviews"`
	TotalListings     int64   `json:"total_listings"`
	AvailableListings int64   `json:"available_listings"`
}

// GetProfiles - GET /api/profiles
func (h *ProfileHandler) GetProfiles(c *fiber.Ctx) error {
	var profiles []models.Profile
	if err := h.DB.Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch profiles"})
	}
	return c.JSON(fiber.Map{"data": profiles})
}

// GetProfile - GET /api/profiles/:id
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var profile models.Profile
	if err := h.DB.First(&profile, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	return c.JSON(fiber.Map{"data": profile})
}

// UpdateProfile - PUT /api/profiles/:id
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok || profileID != uint(id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var profile models.Profile
	if err := h.DB.First(&profile, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.InstagramHandle != nil {
		profile.InstagramHandle = *req.InstagramHandle
	}
	if req.AcademicLevel != nil {
		profile.AcademicLevel = *req.AcademicLevel
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile updated", "data": profile})
}

// DeleteProfile - DELETE /api/profiles/:id
func (h *ProfileHandler) DeleteProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok || profileID != uint(id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	if err := h.DB.Delete(&models.Profile{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile deleted"})
}

// GetSellerInfo - GET /api/profiles/:id/seller-info
func (h *ProfileHandler) GetSellerInfo(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var profile models.Profile
	if err := h.DB.First(&profile, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Seller not found"})
	}

	var totalListings, availableListings int64
	h.DB.Model(&models.Product{}).Where("seller_profile_id = ?", id).Count(&totalListings)
	h.DB.Model(&models.Product{}).Where("seller_profile_id = ? AND is_available = ?", id, true).Count(&availableListings)

	info := SellerInfo{
		ProfileID:         profile.ID,
		FirstName:         profile.FirstName,
		LastName:          profile.LastName,
		Email:             profile.Email,
		PhoneNumber:       profile.PhoneNumber,
		InstagramHandle:   profile.InstagramHandle,
		CreatedAt:         profile.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		SellerRating:      profile.SellerRating,
		TotalReviews:      profile.TotalReviews,
		TotalListings:     totalListings,
		AvailableListings: availableListings,
	}

	return c.JSON(fiber.Map{"data": info})
}
