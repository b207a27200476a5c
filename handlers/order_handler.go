package handlers

import (
	"github.com/cdanpc/CampusMart/internal/notify"
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrderHandler owns the order lifecycle. Unlike the legacy backend, which
// trusted whichever status string the client asked for, every transition is
// checked against the table in models before it is applied.
type OrderHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

func NewOrderHandler(db *gorm.DB, notifier *notify.Notifier) *OrderHandler {
	return &OrderHandler{DB: db, Notifier: notifier}
}

// CreateOrderRequest
type CreateOrderRequest struct {
	SellerProfileID uint    `json:"seller_profile_id"`
	ProductID       uint    `json:"product_id"`
	TotalAmount     float64 `json:"total_amount"`
	Quantity        int     `json:"quantity"`
	PaymentMethod   string  `json:"payment_method"`
	PickupLocation  string  `json:"pickup_location"`
	DeliveryNotes   string  `json:"delivery_notes"`
}

// UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder - POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	buyerID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	if req.ProductID == 0 || req.SellerProfileID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Seller and product are required"})
	}
	if buyerID == req.SellerProfileID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot buy your own product"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.TotalAmount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Total amount must not be negative"})
	}

	var buyer, seller models.Profile
	if err := h.DB.First(&buyer, buyerID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Buyer not found"})
	}
	if err := h.DB.First(&seller, req.SellerProfileID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Seller not found"})
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product not found"})
	}
	if product.SellerProfileID != seller.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product does not belong to the specified seller"})
	}
	if product.Stock < req.Quantity {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient stock available"})
	}

	order := models.Order{
		BuyerProfileID:  buyer.ID,
		SellerProfileID: seller.ID,
		ProductID:       product.ID,
		TotalAmount:     req.TotalAmount,
		Quantity:        req.Quantity,
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PickupLocation:  req.PickupLocation,
		DeliveryNotes:   req.DeliveryNotes,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Reserve the stock with the order.
		return tx.Model(&product).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Quantity)).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create order"})
	}

	// Best-effort: a failed notification must not fail the order.
	h.Notifier.OrderPlaced(seller.ID, order.ID, product.Name, buyer.FullName())

	h.DB.Preload("Buyer").Preload("Seller").Preload("Product").First(&order, order.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order created", "data": order})
}

// GetOrder - GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var order models.Order
	if err := h.DB.Preload("Buyer").Preload("Seller").Preload("Product").Preload("Product.Images").
		First(&order, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	return c.JSON(fiber.Map{"data": order})
}

// GetOrdersByBuyer - GET /api/orders/buyer/:buyerID
func (h *OrderHandler) GetOrdersByBuyer(c *fiber.Ctx) error {
	buyerID, err := c.ParamsInt("buyerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}
	return h.listOrders(c, "buyer_profile_id = ?", buyerID)
}

// GetOrdersBySeller - GET /api/orders/seller/:sellerID
func (h *OrderHandler) GetOrdersBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}
	return h.listOrders(c, "seller_profile_id = ?", sellerID)
}

// GetOrdersByProduct - GET /api/orders/product/:productID
func (h *OrderHandler) GetOrdersByProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	return h.listOrders(c, "product_id = ?", productID)
}

func (h *OrderHandler) listOrders(c *fiber.Ctx, cond string, arg interface{}) error {
	var orders []models.Order
	if err := h.DB.Preload("Buyer").Preload("Seller").Preload("Product").Preload("Product.Images").
		Where(cond, arg).Order("created_at desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch orders"})
	}
	return c.JSON(fiber.Map{"data": orders})
}

// GetDetailedOrdersByBuyer - GET /api/orders/buyer/:buyerID/detailed
func (h *OrderHandler) GetDetailedOrdersByBuyer(c *fiber.Ctx) error {
	buyerID, err := c.ParamsInt("buyerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}
	return h.listDetailedOrders(c, "buyer_profile_id = ?", buyerID)
}

// GetDetailedOrdersBySeller - GET /api/orders/seller/:sellerID/detailed
func (h *OrderHandler) GetDetailedOrdersBySeller(c *fiber.Ctx) error {
	sellerID, err := c.ParamsInt("sellerID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller ID"})
	}
	return h.listDetailedOrders(c, "seller_profile_id = ?", sellerID)
}

func (h *OrderHandler) listDetailedOrders(c *fiber.Ctx, cond string, arg interface{}) error {
	var orders []models.Order
	if err := h.DB.Preload("Buyer").Preload("Seller").
		Preload("Product").Preload("Product.Category").Preload("Product.Images").
		Where(cond, arg).Order("created_at desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch orders"})
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := models.OrderDetail{
			OrderID:        order.ID,
			Quantity:       order.Quantity,
			TotalAmount:    order.TotalAmount,
			Status:         order.Status,
			PaymentMethod:  order.PaymentMethod,
			PickupLocation: order.PickupLocation,
			DeliveryNotes:  order.DeliveryNotes,
			CreatedAt:      order.CreatedAt,
			UpdatedAt:      order.UpdatedAt,

			ProductID:          order.Product.ID,
			ProductName:        order.Product.Name,
			ProductDescription: order.Product.Description,
			ProductPrice:       order.Product.Price,
			ProductImage:       order.Product.PrimaryImageURL(),
			ProductCondition:   order.Product.Condition,

			BuyerProfileID: order.Buyer.ID,
			BuyerFirstName: order.Buyer.FirstName,
			BuyerLastName:  order.Buyer.LastName,
			BuyerEmail:     order.Buyer.Email,
			BuyerPhone:     order.Buyer.PhoneNumber,

			SellerProfileID: order.Seller.ID,
			SellerFirstName: order.Seller.FirstName,
			SellerLastName:  order.Seller.LastName,
			SellerEmail:     order.Seller.Email,
			SellerPhone:     order.Seller.PhoneNumber,
		}
		if order.Product.Category != nil {
			detail.ProductCategory = order.Product.Category.Name
		}

		var review models.Review
		if err := h.DB.Where("order_id = ?", order.ID).First(&review).Error; err == nil {
			detail.HasReview = true
			reviewID := review.ID
			detail.ReviewID = &reviewID
		}

		details = append(details, detail)
	}

	return c.JSON(fiber.Map{"data": details})
}

// UpdateOrderStatus - PATCH /api/orders/:id/status
// The transition table is authoritative; requests that skip states or leave
// a terminal state are rejected with 409.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	newStatus := models.NormalizeOrderStatus(req.Status)
	if newStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown order status"})
	}

	var order models.Order
	if err := h.DB.Preload("Buyer").Preload("Seller").Preload("Product").
		First(&order, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	isBuyer := order.BuyerProfileID == profileID
	isSeller := order.SellerProfileID == profileID
	if !isBuyer && !isSeller {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	// Either party may cancel; the forward path belongs to the seller.
	if newStatus != models.OrderStatusCancelled && !isSeller {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the seller can advance an order"})
	}

	oldStatus := order.Status
	if !models.CanTransitionOrder(oldStatus, newStatus) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invalid status transition from " + oldStatus + " to " + newStatus,
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		// A cancelled order releases the stock it reserved.
		if newStatus == models.OrderStatusCancelled {
			return tx.Model(&models.Product{}).Where("id = ?", order.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", order.Quantity)).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update order"})
	}
	order.Status = newStatus

	switch newStatus {
	case models.OrderStatusConfirmed:
		h.Notifier.OrderConfirmed(order.BuyerProfileID, order.ID, order.Product.Name)
	case models.OrderStatusReady:
		h.Notifier.OrderReadyForPickup(order.BuyerProfileID, order.ID, order.Product.Name, order.PickupLocation)
	case models.OrderStatusCompleted:
		h.Notifier.OrderCompleted(order.BuyerProfileID, order.ID, order.Product.Name)
	case models.OrderStatusCancelled:
		h.Notifier.OrderCancelled(order.BuyerProfileID, order.ID, order.Product.Name, "Order cancelled")
		h.Notifier.OrderCancelled(order.SellerProfileID, order.ID, order.Product.Name, "Order cancelled")
	}

	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

// DeleteOrder - DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	if order.BuyerProfileID != profileID && order.SellerProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	if err := h.DB.Delete(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete order"})
	}

	return c.JSON(fiber.Map{"message": "Order deleted"})
}
