package handlers

import (
	"github.com/cdanpc/CampusMart/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// GetCategories - GET /api/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch categories"})
	}
	return c.JSON(fiber.Map{"data": categories})
}

// GetCategoryByName - GET /api/categories/name/:name
func (h *CategoryHandler) GetCategoryByName(c *fiber.Ctx) error {
	name := c.Params("name")
	var category models.Category
	if err := h.DB.Where("name = ?", name).First(&category).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}
	return c.JSON(fiber.Map{"data": category})
}
