package handlers

import (
	"net/http"
	"testing"

	"github.com/cdanpc/CampusMart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTradeOffer(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	offerer, offererToken := seedAccount(t, db, "offerer@university.edu", "Olly", "Offerer")
	product := seedProduct(t, db, seller.ID, "Skateboard", 40, 1)

	resp := doRequest(t, app, http.MethodPost, "/api/tradeoffers", offererToken, map[string]interface{}{
		"product_id":        product.ID,
		"offered_price":     0,
		"trade_description": "My old longboard for your skateboard",
		"item_name":         "Longboard",
		"item_condition":    "Fair",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var offer models.TradeOffer
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&offer).Error)
	assert.Equal(t, models.TradeOfferPending, offer.Status)
	assert.Equal(t, offerer.ID, offer.OffererProfileID)
}

func TestCreateTradeOfferOnOwnProduct(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	product := seedProduct(t, db, seller.ID, "Guitar", 150, 1)

	resp := doRequest(t, app, http.MethodPost, "/api/tradeoffers", sellerToken, map[string]interface{}{
		"product_id":    product.ID,
		"offered_price": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTradeOfferAcceptBySeller(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	offerer, _ := seedAccount(t, db, "offerer@university.edu", "Olly", "Offerer")
	product := seedProduct(t, db, seller.ID, "Camera", 200, 1)

	offer := models.TradeOffer{
		ProductID:        product.ID,
		OffererProfileID: offerer.ID,
		OfferedPrice:     180,
		Status:           models.TradeOfferPending,
	}
	require.NoError(t, db.Create(&offer).Error)

	resp := doRequest(t, app, http.MethodPatch, "/api/tradeoffers/"+itoa(offer.ID)+"/status", sellerToken,
		map[string]interface{}{"status": "accepted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.TradeOffer
	require.NoError(t, db.First(&updated, offer.ID).Error)
	assert.Equal(t, models.TradeOfferAccepted, updated.Status)

	// Terminal: no further transitions.
	resp = doRequest(t, app, http.MethodPatch, "/api/tradeoffers/"+itoa(offer.ID)+"/status", sellerToken,
		map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTradeOfferRoleRules(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	offerer, offererToken := seedAccount(t, db, "offerer@university.edu", "Olly", "Offerer")
	product := seedProduct(t, db, seller.ID, "Tablet", 120, 1)

	offer := models.TradeOffer{
		ProductID:        product.ID,
		OffererProfileID: offerer.ID,
		OfferedPrice:     100,
		Status:           models.TradeOfferPending,
	}
	require.NoError(t, db.Create(&offer).Error)

	path := "/api/tradeoffers/" + itoa(offer.ID) + "/status"

	// The offerer cannot accept their own offer.
	resp := doRequest(t, app, http.MethodPatch, path, offererToken, map[string]interface{}{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The seller cannot withdraw the offer.
	resp = doRequest(t, app, http.MethodPatch, path, sellerToken, map[string]interface{}{"status": "withdrawn"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The offerer withdraws.
	resp = doRequest(t, app, http.MethodPatch, path, offererToken, map[string]interface{}{"status": "withdrawn"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.TradeOffer
	require.NoError(t, db.First(&updated, offer.ID).Error)
	assert.Equal(t, models.TradeOfferWithdrawn, updated.Status)
}

func TestDeleteTradeOfferPendingRejected(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	offerer, offererToken := seedAccount(t, db, "offerer@university.edu", "Olly", "Offerer")
	product := seedProduct(t, db, seller.ID, "Backpack", 30, 1)

	offer := models.TradeOffer{
		ProductID:        product.ID,
		OffererProfileID: offerer.ID,
		OfferedPrice:     25,
		Status:           models.TradeOfferPending,
	}
	require.NoError(t, db.Create(&offer).Error)

	path := "/api/tradeoffers/" + itoa(offer.ID)

	// Pending offers cannot be deleted.
	resp := doRequest(t, app, http.MethodDelete, path, offererToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, db.Model(&models.TradeOffer{}).Where("id = ?", offer.ID).
		Update("status", models.TradeOfferRejected).Error)

	resp = doRequest(t, app, http.MethodDelete, path, offererToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetOffersBySeller(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	offerer, _ := seedAccount(t, db, "offerer@university.edu", "Olly", "Offerer")
	product := seedProduct(t, db, seller.ID, "Scooter", 90, 1)

	offer := models.TradeOffer{
		ProductID:        product.ID,
		OffererProfileID: offerer.ID,
		OfferedPrice:     75,
		Status:           models.TradeOfferPending,
	}
	require.NoError(t, db.Create(&offer).Error)

	resp := doRequest(t, app, http.MethodGet, "/api/tradeoffers/seller/"+itoa(seller.ID), sellerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	rows := body["data"].([]interface{})
	assert.Len(t, rows, 1)
}
