package handlers

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cdanpc/CampusMart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageAndConversation(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")
	product := seedProduct(t, db, seller.ID, "Microwave", 40, 1)

	resp := doRequest(t, app, http.MethodPost, "/api/messages", buyerToken, map[string]interface{}{
		"receiver_profile_id": seller.ID,
		"product_id":          product.ID,
		"content":             "Is this still available?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/messages", sellerToken, map[string]interface{}{
		"receiver_profile_id": buyer.ID,
		"product_id":          product.ID,
		"content":             "Yes, pickup this week.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	path := "/api/messages/conversation/" + itoa(buyer.ID) + "/" + itoa(seller.ID) + "/product/" + itoa(product.ID)
	resp = doRequest(t, app, http.MethodGet, path, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Is this still available?", first["content"])
}

func TestGeneralConversationExcludesProductThreads(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")
	product := seedProduct(t, db, seller.ID, "Kettle", 10, 1)

	require.NoError(t, db.Create(&models.Message{
		SenderProfileID:   buyer.ID,
		ReceiverProfileID: seller.ID,
		ProductID:         &product.ID,
		Content:           "About the kettle",
	}).Error)
	require.NoError(t, db.Create(&models.Message{
		SenderProfileID:   buyer.ID,
		ReceiverProfileID: seller.ID,
		Content:           "Hey, general question",
	}).Error)

	path := "/api/messages/conversation/" + itoa(buyer.ID) + "/" + itoa(seller.ID) + "/general"
	resp := doRequest(t, app, http.MethodGet, path, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Hey, general question", rows[0].(map[string]interface{})["content"])
}

func TestConversationsGroupedPerPartnerAndProduct(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")
	product := seedProduct(t, db, seller.ID, "Blender", 22, 1)

	require.NoError(t, db.Create(&models.Message{
		SenderProfileID:   seller.ID,
		ReceiverProfileID: buyer.ID,
		ProductID:         &product.ID,
		Content:           "Offer accepted",
	}).Error)
	require.NoError(t, db.Create(&models.Message{
		SenderProfileID:   seller.ID,
		ReceiverProfileID: buyer.ID,
		Content:           "Separate thread",
	}).Error)

	resp := doRequest(t, app, http.MethodGet, "/api/messages/conversations/"+itoa(buyer.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	rows := body["data"].([]interface{})
	// One product thread and one general thread with the same partner.
	assert.Len(t, rows, 2)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Message{
			SenderProfileID:   seller.ID,
			ReceiverProfileID: buyer.ID,
			Content:           "ping",
		}).Error)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/messages/unread-count/"+itoa(buyer.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, 3, body["unread_count"])

	resp = doRequest(t, app, http.MethodPatch, "/api/messages/conversation/read", buyerToken, map[string]interface{}{
		"other_user_id": seller.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/messages/unread-count/"+itoa(buyer.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.EqualValues(t, 0, body["unread_count"])
}

func TestMarkSingleMessageRead(t *testing.T) {
	app, db := newTestApp(t)
	seller, sellerToken := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")

	msg := models.Message{
		SenderProfileID:   seller.ID,
		ReceiverProfileID: buyer.ID,
		Content:           "pickup at noon?",
	}
	require.NoError(t, db.Create(&msg).Error)

	// Only the receiver may mark it read.
	resp := doRequest(t, app, http.MethodPatch, "/api/messages/"+itoa(msg.ID)+"/read", sellerToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/api/messages/"+itoa(msg.ID)+"/read", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Message
	require.NoError(t, db.First(&updated, msg.ID).Error)
	assert.True(t, updated.IsRead)
}

func TestDeleteSingleMessage(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")
	_, strangerToken := seedAccount(t, db, "other@university.edu", "Olga", "Other")

	msg := models.Message{
		SenderProfileID:   buyer.ID,
		ReceiverProfileID: seller.ID,
		Content:           "sent by mistake",
	}
	require.NoError(t, db.Create(&msg).Error)

	resp := doRequest(t, app, http.MethodDelete, "/api/messages/"+itoa(msg.ID), strangerToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/messages/"+itoa(msg.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Soft deleted and hidden from the conversation view.
	var deleted models.Message
	require.NoError(t, db.First(&deleted, msg.ID).Error)
	assert.True(t, deleted.IsDeleted)

	path := "/api/messages/conversation/" + itoa(buyer.ID) + "/" + itoa(seller.ID) + "/general"
	resp = doRequest(t, app, http.MethodGet, path, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["data"])
}

func TestMessagePreviewTruncatesOnRunes(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	_, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")

	content := strings.Repeat("ü", 60)
	resp := doRequest(t, app, http.MethodPost, "/api/messages", buyerToken, map[string]interface{}{
		"receiver_profile_id": seller.ID,
		"content":             content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var notification models.Notification
	require.NoError(t, db.Where("profile_id = ? AND type = ?", seller.ID, models.NotifMessage).
		First(&notification).Error)

	assert.True(t, utf8.ValidString(notification.Message))
	assert.Contains(t, notification.Message, strings.Repeat("ü", 47)+"...")
}

func TestDeleteConversationHidesMessages(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := seedAccount(t, db, "seller@university.edu", "Sally", "Seller")
	buyer, buyerToken := seedAccount(t, db, "buyer@university.edu", "Bob", "Buyer")

	require.NoError(t, db.Create(&models.Message{
		SenderProfileID:   buyer.ID,
		ReceiverProfileID: seller.ID,
		Content:           "delete me",
	}).Error)

	resp := doRequest(t, app, http.MethodDelete, "/api/messages/conversation", buyerToken, map[string]interface{}{
		"other_user_id": seller.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The row survives as a soft-deleted record.
	var msg models.Message
	require.NoError(t, db.First(&msg).Error)
	assert.True(t, msg.IsDeleted)

	path := "/api/messages/conversation/" + itoa(buyer.ID) + "/" + itoa(seller.ID) + "/general"
	resp = doRequest(t, app, http.MethodGet, path, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Empty(t, body["data"])
}
