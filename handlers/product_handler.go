package handlers

import (
	"strings"

	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// ProductImageInput is one uploaded image reference in a create/update
// payload.
type ProductImageInput struct {
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateProductRequest
type CreateProductRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       *float64            `json:"price"`
	CategoryID  *uint               `json:"category_id"`
	BrandType   string              `json:"brand_type"`
	Condition   string              `json:"condition"`
	ContactInfo string              `json:"contact_info"`
	TradeOnly   bool                `json:"trade_only"`
	Stock       *int                `json:"stock"`
	IsAvailable *bool               `json:"is_available"`
	Images      []ProductImageInput `json:"images"`
}

// buildImages converts image inputs, flagging the first image primary when
// the payload marks none.
func buildImages(inputs []ProductImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(inputs))
	hasPrimary := false
	for _, in := range inputs {
		if in.IsPrimary {
			hasPrimary = true
		}
		images = append(images, models.ProductImage{ImageURL: in.ImageURL, IsPrimary: in.IsPrimary})
	}
	if !hasPrimary && len(images) > 0 {
		images[0].IsPrimary = true
	}
	return images
}

// productJSON augments a product with its resolved primary image URL so
// list views never have to scan the image array themselves.
func productJSON(p models.Product) fiber.Map {
	return fiber.Map{
		"id":                p.ID,
		"seller_profile_id": p.SellerProfileID,
		"name":              p.Name,
		"description":       p.Description,
		"price":             p.Price,
		"category_id":       p.CategoryID,
		"category":          p.Category,
		"brand_type":        p.BrandType,
		"condition":         p.Condition,
		"contact_info":      p.ContactInfo,
		"is_available":      p.IsAvailable,
		"trade_only":        p.TradeOnly,
		"view_count":        p.ViewCount,
		"like_count":        p.LikeCount,
		"stock":             p.Stock,
		"created_at":        p.CreatedAt,
		"updated_at":        p.UpdatedAt,
		"seller":            p.Seller,
		"images":            p.Images,
		"image_url":         p.PrimaryImageURL(),
	}
}

func productListJSON(products []models.Product) []fiber.Map {
	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	return out
}

// CreateProduct - POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.Name == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and description are required"})
	}

	// Trade-only listings carry no asking price, whatever the client sent.
	price := req.Price
	if req.TradeOnly {
		price = nil
	}

	stock := 1
	if req.Stock != nil {
		stock = *req.Stock
	}

	product := models.Product{
		SellerProfileID: profileID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           price,
		CategoryID:      req.CategoryID,
		BrandType:       req.BrandType,
		Condition:       req.Condition,
		ContactInfo:     req.ContactInfo,
		IsAvailable:     true,
		TradeOnly:       req.TradeOnly,
		Stock:           stock,
		Images:          buildImages(req.Images),
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create product"})
	}

	h.DB.Preload("Seller").Preload("Category").First(&product, product.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": productJSON(product)})
}

// GetAllProducts - GET /api/products
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	var products []models.Product
	query := h.DB.Preload("Seller").Preload("Category").Preload("Images").
		Where("is_available = ?", true)

	// Filter by Category
	if category := c.Query("category"); category != "" {
		query = query.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("categories.name = ?", category)
	}

	// Search by name or description, case-insensitive
	if q := c.Query("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}

	// Sort by Newest
	query = query.Order("products.created_at desc")

	if err := query.Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	return c.JSON(fiber.Map{"data": productListJSON(products)})
}

// SearchProducts - GET /api/products/search?q=
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	return h.GetAllProducts(c)
}

// GetProduct - GET /api/products/:id
// Each read counts as one view.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.Preload("Seller").Preload("Category").Preload("Images").
		First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	h.DB.Model(&product).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	product.ViewCount++

	return c.JSON(fiber.Map{"data": productJSON(product)})
}

// GetProductsBySeller - GET /api/products/seller/:sellerID
// ?available=true narrows to listings still for sale.
func (h *ProductHandler) GetProductsBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}

	query := h.DB.Preload("Seller").Preload("Category").Preload("Images").
		Where("seller_profile_id = ?", sellerID)
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var products []models.Product
	if err := query.Order("created_at desc").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	return c.JSON(fiber.Map{"data": productListJSON(products)})
}

// UpdateProduct - PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var product models.Product
	if err := h.DB.Preload("Images").First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Check ownership
	if product.SellerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.BrandType = req.BrandType
	product.Condition = req.Condition
	product.ContactInfo = req.ContactInfo
	product.TradeOnly = req.TradeOnly
	if req.TradeOnly {
		product.Price = nil
	} else {
		product.Price = req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// Images are replaced wholesale when the payload carries any.
		if req.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			product.Images = buildImages(req.Images)
			for i := range product.Images {
				product.Images[i].ProductID = product.ID
			}
			// An empty array clears the gallery; Create rejects empty slices.
			if len(product.Images) > 0 {
				if err := tx.Create(&product.Images).Error; err != nil {
					return err
				}
			}
		}
		return tx.Omit("Images").Save(&product).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
	}

	h.DB.Preload("Seller").Preload("Category").Preload("Images").First(&product, product.ID)

	return c.JSON(fiber.Map{"message": "Product updated", "data": productJSON(product)})
}

// DeleteProduct - DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Check ownership
	if product.SellerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// Likes and images reference the product; clear them first.
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ToggleLike - POST /api/products/:id/like
// One like per profile; a second call removes it. The unique (product,
// profile) index keeps concurrent double-submits idempotent.
func (h *ProductHandler) ToggleLike(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	liked := false
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ProductLike
		findErr := tx.Where("product_id = ? AND profile_id = ?", product.ID, profileID).First(&existing).Error
		if findErr == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		} else if findErr == gorm.ErrRecordNotFound {
			like := models.ProductLike{ProductID: product.ID, ProfileID: profileID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
		} else {
			return findErr
		}

		// Recompute from the likes table rather than trusting the counter.
		var count int64
		if err := tx.Model(&models.ProductLike{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
			return err
		}
		product.LikeCount = int(count)
		return tx.Model(&product).UpdateColumn("like_count", count).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update like"})
	}

	return c.JSON(fiber.Map{
		"message":    "Like updated",
		"liked":      liked,
		"like_count": product.LikeCount,
	})
}

// HasLiked - GET /api/products/:id/liked
func (h *ProductHandler) HasLiked(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var count int64
	h.DB.Model(&models.ProductLike{}).
		Where("product_id = ? AND profile_id = ?", id, profileID).
		Count(&count)

	return c.JSON(fiber.Map{"liked": count > 0})
}
