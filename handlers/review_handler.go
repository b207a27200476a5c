package handlers

import (
	"math"

	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

// CreateReviewRequest
type CreateReviewRequest struct {
	SellerProfileID uint   `json:"seller_profile_id"`
	ProductID       *uint  `json:"product_id"`
	OrderID         *uint  `json:"order_id"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment"`
}

// UpdateReviewRequest
type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// updateSellerRating recomputes the seller's aggregate from the reviews
// table: average rating to two decimals plus the review count.
func (h *ReviewHandler) updateSellerRating(tx *gorm.DB, sellerID uint) error {
	var count int64
	if err := tx.Model(&models.Review{}).Where("seller_profile_id = ?", sellerID).Count(&count).Error; err != nil {
		return err
	}

	var avg float64
	if count > 0 {
		row := tx.Model(&models.Review{}).Where("seller_profile_id = ?", sellerID).
			Select("AVG(rating)").Row()
		if err := row.Scan(&avg); err != nil {
			return err
		}
		avg = math.Round(avg*100) / 100
	}

	return tx.Model(&models.Profile{}).Where("id = ?", sellerID).
		Updates(map[string]interface{}{
			"seller_rating": avg,
			"total_reviews": count,
		}).Error
}

// CreateReview - POST /api/reviews
// A review tied to an order must come from its buyer, match its seller,
// reference a completed order, and be the only review for that order.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	reviewerID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}
	if req.SellerProfileID == 0 || req.SellerProfileID == reviewerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller"})
	}

	if req.OrderID != nil {
		var order models.Order
		if err := h.DB.First(&order, *req.OrderID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order not found"})
		}
		if order.Status != models.OrderStatusCompleted {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Reviews can only be submitted for completed orders. Current status: " + order.Status,
			})
		}
		var existing int64
		h.DB.Model(&models.Review{}).Where("order_id = ?", *req.OrderID).Count(&existing)
		if existing > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A review already exists for this order"})
		}
		if order.BuyerProfileID != reviewerID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the buyer of the order can submit a review"})
		}
		if order.SellerProfileID != req.SellerProfileID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Seller mismatch with order"})
		}
	}

	review := models.Review{
		ReviewerProfileID: reviewerID,
		SellerProfileID:   req.SellerProfileID,
		ProductID:         req.ProductID,
		OrderID:           req.OrderID,
		Rating:            req.Rating,
		Comment:           req.Comment,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return h.updateSellerRating(tx, review.SellerProfileID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create review"})
	}

	h.DB.Preload("Reviewer").Preload("Seller").First(&review, review.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review created", "data": review})
}

// GetReview - GET /api/reviews/:id
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	var review models.Review
	if err := h.DB.Preload("Reviewer").Preload("Seller").Preload("Product").
		First(&review, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	return c.JSON(fiber.Map{"data": review})
}

// GetReviewsBySeller - GET /api/reviews/seller/:sellerID
func (h *ReviewHandler) GetReviewsBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}
	return h.listReviews(c, "seller_profile_id = ?", sellerID)
}

// GetReviewsByReviewer - GET /api/reviews/written/:reviewerID
func (h *ReviewHandler) GetReviewsByReviewer(c *fiber.Ctx) error {
	reviewerID, err := c.ParamsInt("reviewerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reviewer ID"})
	}
	return h.listReviews(c, "reviewer_profile_id = ?", reviewerID)
}

// GetReviewsByProduct - GET /api/reviews/product/:productID
func (h *ReviewHandler) GetReviewsByProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	return h.listReviews(c, "product_id = ?", productID)
}

func (h *ReviewHandler) listReviews(c *fiber.Ctx, cond string, arg interface{}) error {
	var reviews []models.Review
	if err := h.DB.Preload("Reviewer").Preload("Seller").Preload("Product").
		Where(cond, arg).Order("created_at desc").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reviews"})
	}
	return c.JSON(fiber.Map{"data": reviews})
}

// GetDetailedReviewsBySeller - GET /api/reviews/seller/:sellerID/detailed
// Paginated; ?sort=recent|highest|lowest, ?page=1, ?limit=10.
func (h *ReviewHandler) GetDetailedReviewsBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var order string
	switch c.Query("sort", "recent") {
	case "highest":
		order = "rating desc, created_at desc"
	case "lowest":
		order = "rating asc, created_at desc"
	default:
		order = "created_at desc"
	}

	var total int64
	h.DB.Model(&models.Review{}).Where("seller_profile_id = ?", sellerID).Count(&total)

	var reviews []models.Review
	if err := h.DB.Preload("Reviewer").Preload("Product").
		Where("seller_profile_id = ?", sellerID).
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reviews"})
	}

	details := make([]models.ReviewDetail, 0, len(reviews))
	for _, review := range reviews {
		detail := models.ReviewDetail{
			ID:                review.ID,
			Rating:            review.Rating,
			Comment:           review.Comment,
			CreatedAt:         review.CreatedAt,
			ReviewerProfileID: review.ReviewerProfileID,
			ReviewerFirstName: review.Reviewer.FirstName,
			ReviewerLastName:  review.Reviewer.LastName,
			ProductID:         review.ProductID,
		}
		if review.Product != nil {
			detail.ProductName = review.Product.Name
		}
		details = append(details, detail)
	}

	meta := models.NewPaginationMeta(page, limit, total)
	return c.JSON(models.SuccessResponse("Reviews fetched", details, meta))
}

// UpdateReview - PUT /api/reviews/:id
// Only the reviewer may edit, and only rating and comment change.
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var review models.Review
	if err := h.DB.First(&review, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	if review.ReviewerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	review.Rating = req.Rating
	review.Comment = req.Comment

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return h.updateSellerRating(tx, review.SellerProfileID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update review"})
	}

	return c.JSON(fiber.Map{"message": "Review updated", "data": review})
}

// DeleteReview - DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var review models.Review
	if err := h.DB.First(&review, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	if review.ReviewerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return h.updateSellerRating(tx, review.SellerProfileID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete review"})
	}

	return c.JSON(fiber.Map{"message": "Review deleted"})
}
