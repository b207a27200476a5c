package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cdanpc/CampusMart/config"
	"github.com/cdanpc/CampusMart/internal/notify"
	"github.com/cdanpc/CampusMart/internal/ws"
	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. The shared cache keeps all
// pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// newTestApp wires the full API against a fresh database and hub.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	notifier := notify.New(db, hub)

	authHandler := NewAuthHandler(db)
	profileHandler := NewProfileHandler(db)
	categoryHandler := NewCategoryHandler(db)
	productHandler := NewProductHandler(db)
	orderHandler := NewOrderHandler(db, notifier)
	tradeOfferHandler := NewTradeOfferHandler(db, notifier)
	messageHandler := NewMessageHandler(db, notifier)
	reportHandler := NewReportHandler(db)
	notificationHandler := NewNotificationHandler(db)
	reviewHandler := NewReviewHandler(db)

	app := fiber.New()
	api := app.Group("/api")

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

	authed := api.Group("", utils.AuthMiddleware)

	authed.Put("/auth/users/:userID/change-password", authHandler.ChangePassword)

	authed.Put("/profiles/:id", profileHandler.UpdateProfile)
	authed.Delete("/profiles/:id", profileHandler.DeleteProfile)

	authed.Post("/products", productHandler.CreateProduct)
	authed.Put("/products/:id", productHandler.UpdateProduct)
	authed.Delete("/products/:id", productHandler.DeleteProduct)
	authed.Post("/products/:id/like", productHandler.ToggleLike)
	authed.Get("/products/:id/liked", productHandler.HasLiked)

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

	return app, db
}

// seedAccount inserts a user with a profile and returns the profile plus a
// valid token for it.
func seedAccount(t *testing.T, db *gorm.DB, email, firstName, lastName string) (models.Profile, string) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{Email: email, Password: hashed}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{
		UserID:        user.ID,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		PhoneNumber:   "555-0100",
		AcademicLevel: "Undergraduate",
	}
	require.NoError(t, db.Create(&profile).Error)

	token, err := utils.GenerateToken(user.ID, user.Email, profile.ID)
	require.NoError(t, err)

	return profile, token
}

// seedProduct inserts a listing owned by the given seller.
func seedProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		SellerProfileID: sellerID,
		Name:            name,
		Description:     "test listing",
		Price:           &price,
		Condition:       "Good",
		IsAvailable:     true,
		Stock:           stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// doRequest performs a JSON request against the test app. A non-empty token
// is sent as a Bearer credential.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
