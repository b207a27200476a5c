package handlers

import (
	"github.com/cdanpc/CampusMart/internal/notify"
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TradeOfferHandler owns the offer lifecycle: PENDING is the only live
// state, and who may move an offer out of it depends on their side of the
// trade. ACCEPTED, REJECTED and WITHDRAWN are final.
type TradeOfferHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

func NewTradeOfferHandler(db *gorm.DB, notifier *notify.Notifier) *TradeOfferHandler {
	return &TradeOfferHandler{DB: db, Notifier: notifier}
}

// CreateTradeOfferRequest
type CreateTradeOfferRequest struct {
	ProductID        uint     `json:"product_id"`
	OfferedPrice     float64  `json:"offered_price"`
	TradeDescription string   `json:"trade_description"`
	ItemName         string   `json:"item_name"`
	ItemEstimated    *float64 `json:"item_estimated_value"`
	ItemCondition    string   `json:"item_condition"`
	ItemImageURL     string   `json:"item_image_url"`
	CashComponent    *float64 `json:"cash_component"`
}

// UpdateTradeOfferStatusRequest
type UpdateTradeOfferStatusRequest struct {
	Status string `json:"status"`
}

// CreateTradeOffer - POST /api/tradeoffers
func (h *TradeOfferHandler) CreateTradeOffer(c *fiber.Ctx) error {
	var req CreateTradeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	offererID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product reference is required"})
	}

	var product models.Product
	if err := h.DB.Preload("Seller").First(&product, req.ProductID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product not found"})
	}
	if product.SellerProfileID == offererID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot make an offer on your own product"})
	}

	var offerer models.Profile
	if err := h.DB.First(&offerer, offererID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Offerer not found"})
	}

	offer := models.TradeOffer{
		ProductID:        product.ID,
		OffererProfileID: offererID,
		OfferedPrice:     req.OfferedPrice,
		TradeDescription: req.TradeDescription,
		ItemName:         req.ItemName,
		ItemEstimated:    req.ItemEstimated,
		ItemCondition:    req.ItemCondition,
		ItemImageURL:     req.ItemImageURL,
		CashComponent:    req.CashComponent,
		Status:           models.TradeOfferPending,
	}

	if err := h.DB.Create(&offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create trade offer"})
	}

	h.Notifier.TradeOfferReceived(product.SellerProfileID, offer.ID, product.Name, offerer.FullName())

	h.DB.Preload("Product").Preload("Product.Images").Preload("Offerer").First(&offer, offer.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Trade offer created", "data": offer})
}

// GetTradeOffer - GET /api/tradeoffers/:id
func (h *TradeOfferHandler) GetTradeOffer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer ID"})
	}

	var offer models.TradeOffer
	if err := h.DB.Preload("Product").Preload("Product.Seller").Preload("Product.Images").
		Preload("Offerer").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade offer not found"})
	}

	return c.JSON(fiber.Map{"data": offer})
}

// GetOffersBySeller - GET /api/tradeoffers/seller/:sellerID
// Offers received on any of the seller's products.
func (h *TradeOfferHandler) GetOffersBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}

	var offers []models.TradeOffer
	if err := h.DB.Preload("Product").Preload("Product.Images").Preload("Offerer").
		Joins("JOIN products ON products.id = trade_offers.product_id").
		Where("products.seller_profile_id = ?", sellerID).
		Order("trade_offers.created_at desc").
		Find(&offers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch trade offers"})
	}

	return c.JSON(fiber.Map{"data": offers})
}

// GetOffersByOfferer - GET /api/tradeoffers/offerer/:offererID
func (h *TradeOfferHandler) GetOffersByOfferer(c *fiber.Ctx) error {
	offererID, err := c.ParamsInt("offererID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offerer ID"})
	}

	var offers []models.TradeOffer
	if err := h.DB.Preload("Product").Preload("Product.Seller").Preload("Product.Images").
		Preload("Offerer").
		Where("offerer_profile_id = ?", offererID).
		Order("created_at desc").
		Find(&offers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch trade offers"})
	}

	return c.JSON(fiber.Map{"data": offers})
}

// GetOffersByProduct - GET /api/tradeoffers/product/:productID
func (h *TradeOfferHandler) GetOffersByProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var offers []models.TradeOffer
	if err := h.DB.Preload("Offerer").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&offers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch trade offers"})
	}

	return c.JSON(fiber.Map{"data": offers})
}

// UpdateTradeOfferStatus - PATCH /api/tradeoffers/:id/status
// Sellers accept or reject, offerers withdraw, and only while PENDING.
func (h *TradeOfferHandler) UpdateTradeOfferStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req UpdateTradeOfferStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	newStatus := models.NormalizeTradeOfferStatus(req.Status)
	if newStatus == "" || newStatus == models.TradeOfferPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown trade offer status"})
	}

	var offer models.TradeOffer
	if err := h.DB.Preload("Product").Preload("Offerer").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade offer not found"})
	}

	isSeller := offer.Product.SellerProfileID == profileID
	isOfferer := offer.OffererProfileID == profileID

	switch newStatus {
	case models.TradeOfferAccepted, models.TradeOfferRejected:
		if !isSeller {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the seller can accept or reject an offer"})
		}
	case models.TradeOfferWithdrawn:
		if !isOfferer {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the offerer can withdraw an offer"})
		}
	}

	if !models.CanTransitionTradeOffer(offer.Status, newStatus) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invalid status transition from " + offer.Status + " to " + newStatus,
		})
	}

	if err := h.DB.Model(&offer).Update("status", newStatus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update trade offer"})
	}
	offer.Status = newStatus

	switch newStatus {
	case models.TradeOfferAccepted:
		h.Notifier.TradeOfferAccepted(offer.OffererProfileID, offer.ID, offer.Product.Name)
	case models.TradeOfferRejected:
		h.Notifier.TradeOfferRejected(offer.OffererProfileID, offer.ID, offer.Product.Name)
	}

	return c.JSON(fiber.Map{"message": "Trade offer updated", "data": offer})
}

// DeleteTradeOffer - DELETE /api/tradeoffers/:id
// Only settled offers may be removed; a PENDING offer has to be withdrawn
// or rejected first.
func (h *TradeOfferHandler) DeleteTradeOffer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offer ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var offer models.TradeOffer
	if err := h.DB.Preload("Product").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade offer not found"})
	}

	if offer.OffererProfileID != profileID && offer.Product.SellerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	if !models.IsTerminalTradeOfferStatus(offer.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only settled trade offers can be deleted"})
	}

	if err := h.DB.Delete(&offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete trade offer"})
	}

	return c.JSON(fiber.Map{"message": "Trade offer deleted"})
}
