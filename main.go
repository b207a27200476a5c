package main

import (
	"log"
	"os"

	"github.com/cdanpc/CampusMart/config"
	"github.com/cdanpc/CampusMart/handlers"
	"github.com/cdanpc/CampusMart/internal/notify"
	"github.com/cdanpc/CampusMart/internal/ws"
	"github.com/cdanpc/CampusMart/middleware"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if os.Getenv("SEED_DEMO") == "true" {
		config.SeedUsers(db)
	}

	hub := ws.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		AppName:      "Campus Mart Backend",
		ServerHeader: "Campus Mart Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app, cfg)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	// Uploaded images are served straight from disk.
	app.Static("/uploads", cfg.UploadDir)

	setupRoutes(app, db, hub, cfg)

	middleware.SetupErrorHandler(app)

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.HOST, cfg.AppPort)

	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub, cfg *config.Config) {
	notifier := notify.New(db, hub)

	authHandler := handlers.NewAuthHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, notifier)
	tradeOfferHandler := handlers.NewTradeOfferHandler(db, notifier)
	messageHandler := handlers.NewMessageHandler(db, notifier)
	reportHandler := handlers.NewReportHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	uploadHandler := handlers.NewUploadHandler(db, cfg.UploadDir)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/name/:name", categoryHandler.GetCategoryByName)

	products := api.Group("/products")
	products.Get("/", productHandler.GetAllProducts)
	products.Get("/search", productHandler.SearchProducts)
	products.Get("/seller/:sellerID", productHandler.GetProductsBySeller)
	products.Get("/:id", productHandler.GetProduct)

	profiles := api.Group("/profiles")
	profiles.Get("/", profileHandler.GetProfiles)
	profiles.Get("/:id", profileHandler.GetProfile)
	profiles.Get("/:id/seller-info", profileHandler.GetSellerInfo)

	reviews := api.Group("/reviews")
	reviews.Get("/seller/:sellerID/detailed", reviewHandler.GetDetailedReviewsBySeller)
	reviews.Get("/seller/:sellerID", reviewHandler.GetReviewsBySeller)
	reviews.Get("/written/:reviewerID", reviewHandler.GetReviewsByReviewer)
	reviews.Get("/product/:productID", reviewHandler.GetReviewsByProduct)
	reviews.Get("/:id", reviewHandler.GetReview)

	// Authenticated routes
	authed := api.Group("", utils.AuthMiddleware)

	authed.Put("/auth/users/:userID/change-password", authHandler.ChangePassword)

	authed.Put("/profiles/:id", profileHandler.UpdateProfile)
	authed.Delete("/profiles/:id", profileHandler.DeleteProfile)
	authed.Post("/profiles/:id/upload-picture", uploadHandler.UploadProfilePicture)

	authed.Post("/products", productHandler.CreateProduct)
	authed.Put("/products/:id", productHandler.UpdateProduct)
	authed.Delete("/products/:id", productHandler.DeleteProduct)
	authed.Post("/products/:id/like", productHandler.ToggleLike)
	authed.Get("/products/:id/liked", productHandler.HasLiked)

	authed.Post("/uploads/products", uploadHandler.UploadProductImage)
	authed.Post("/uploads/messages", uploadHandler.UploadMessageImage)

	orders := authed.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/buyer/:buyerID/detailed", orderHandler.GetDetailedOrdersByBuyer)
	orders.Get("/buyer/:buyerID", orderHandler.GetOrdersByBuyer)
	orders.Get("/seller/:sellerID/detailed", orderHandler.GetDetailedOrdersBySeller)
	orders.Get("/seller/:sellerID", orderHandler.GetOrdersBySeller)
	orders.Get("/product/:productID", orderHandler.GetOrdersByProduct)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", orderHandler.UpdateOrderStatus)
	orders.Delete("/:id", orderHandler.DeleteOrder)

	tradeOffers := authed.Group("/tradeoffers")
	tradeOffers.Post("/", tradeOfferHandler.CreateTradeOffer)
	tradeOffers.Get("/seller/:sellerID", tradeOfferHandler.GetOffersBySeller)
	tradeOffers.Get("/offerer/:offererID", tradeOfferHandler.GetOffersByOfferer)
	tradeOffers.Get("/product/:productID", tradeOfferHandler.GetOffersByProduct)
	tradeOffers.Get("/:id", tradeOfferHandler.GetTradeOffer)
	tradeOffers.Patch("/:id/status", tradeOfferHandler.UpdateTradeOfferStatus)
	tradeOffers.Delete("/:id", tradeOfferHandler.DeleteTradeOffer)

	messages := authed.Group("/messages")
	messages.Post("/", messageHandler.SendMessage)
	messages.Get("/conversations/:userID", messageHandler.GetConversations)
	messages.Get("/conversation/:user1ID/:user2ID/general", messageHandler.GetGeneralConversation)
	messages.Get("/conversation/:user1ID/:user2ID/product/:productID", messageHandler.GetConversation)
	messages.Get("/unread-count/:userID", messageHandler.GetUnreadCount)
	messages.Patch("/conversation/read", messageHandler.MarkConversationRead)
	messages.Patch("/conversation/archive", messageHandler.ArchiveConversation)
	messages.Patch("/conversation/mute", messageHandler.MuteConversation)
	messages.Delete("/conversation", messageHandler.DeleteConversation)
	messages.Patch("/:id/read", messageHandler.MarkMessageRead)
	messages.Delete("/:id", messageHandler.DeleteMessage)

	reports := authed.Group("/reports")
	reports.Post("/", reportHandler.CreateReport)
	reports.Get("/", reportHandler.GetReports)

	notifications := authed.Group("/notifications")
	notifications.Get("/profile/:profileID/unread/count", notificationHandler.GetUnreadCount)
	notifications.Get("/profile/:profileID/unread", notificationHandler.GetUnread)
	notifications.Get("/profile/:profileID", notificationHandler.GetByProfile)
	notifications.Patch("/profile/:profileID/read-all", notificationHandler.MarkAllRead)
	notifications.Delete("/profile/:profileID", notificationHandler.DeleteAllForProfile)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	authedReviews := authed.Group("/reviews")
	authedReviews.Post("/", reviewHandler.CreateReview)
	authedReviews.Put("/:id", reviewHandler.UpdateReview)
	authedReviews.Delete("/:id", reviewHandler.DeleteReview)

	// Realtime push channel
	app.Get("/ws", realtimeHandler.Upgrade, utils.AuthMiddleware, realtimeHandler.Handler())
}
