package notify

import (
	"fmt"
	"log"

	"github.com/cdanpc/CampusMart/internal/ws"
	"github.com/cdanpc/CampusMart/models"

	"gorm.io/gorm"
)

// Notifier persists notifications and pushes them to connected clients.
// Callers treat every method as best-effort: a failed notification never
// fails the order, offer or message that triggered it.
type Notifier struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func New(db *gorm.DB, hub *ws.Hub) *Notifier {
	return &Notifier{DB: db, Hub: hub}
}

// Create stores a notification for a profile and pushes it over the hub if
// the profile is connected.
func (n *Notifier) Create(profileID uint, notifType, title, message string, relatedID uint, relatedType string) {
	var related *uint
	if relatedID != 0 {
		related = &relatedID
	}

	notification := models.Notification{
		ProfileID:   profileID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		RelatedID:   related,
		RelatedType: relatedType,
	}

	if err := n.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create %s notification for profile %d: %v", notifType, profileID, err)
		return
	}

	if n.Hub != nil {
		n.Hub.SendEventToProfile(profileID, "notification", notification)
	}
}

func (n *Notifier) OrderPlaced(sellerID, orderID uint, productName, buyerName string) {
	title := "New Order Received!"
	message := fmt.Sprintf("%s placed an order for your product '%s'", buyerName, productName)
	n.Create(sellerID, models.NotifOrderPlaced, title, message, orderID, models.RelatedOrder)
}

func (n *Notifier) OrderConfirmed(buyerID, orderID uint, productName string) {
	title := "Order Confirmed!"
	message := fmt.Sprintf("Your order for '%s' has been confirmed by the seller. Awaiting pickup preparation.", productName)
	n.Create(buyerID, models.NotifOrderConfirmed, title, message, orderID, models.RelatedOrder)
}

func (n *Notifier) OrderReadyForPickup(buyerID, orderID uint, productName, pickupLocation string) {
	if pickupLocation == "" {
		pickupLocation = "the designated location"
	}
	title := "Order Ready for Pickup!"
	message := fmt.Sprintf("Your order for '%s' is ready for pickup at %s", productName, pickupLocation)
	n.Create(buyerID, models.NotifOrderReady, title, message, orderID, models.RelatedOrder)
}

func (n *Notifier) OrderCompleted(buyerID, orderID uint, productName string) {
	title := "Order Completed!"
	message := fmt.Sprintf("Your order for '%s' has been completed. Thank you for your purchase!", productName)
	n.Create(buyerID, models.NotifOrderCompleted, title, message, orderID, models.RelatedOrder)
}

func (n *Notifier) OrderCancelled(profileID, orderID uint, productName, reason string) {
	title := "Order Cancelled"
	message := fmt.Sprintf("Order for '%s' has been cancelled. Reason: %s", productName, reason)
	n.Create(profileID, models.NotifOrderCancelled, title, message, orderID, models.RelatedOrder)
}

func (n *Notifier) NewMessage(receiverID, messageID uint, senderName, preview string) {
	title := "New Message"
	message := fmt.Sprintf("%s: %s", senderName, preview)
	n.Create(receiverID, models.NotifMessage, title, message, messageID, models.RelatedMessage)
}

func (n *Notifier) TradeOfferReceived(sellerID, offerID uint, productName, offererName string) {
	title := "New Trade Offer!"
	message := fmt.Sprintf("%s made a trade offer on your product '%s'", offererName, productName)
	n.Create(sellerID, models.NotifTradeOffer, title, message, offerID, models.RelatedTradeOffer)
}

func (n *Notifier) TradeOfferAccepted(offererID, offerID uint, productName string) {
	title := "Trade Offer Accepted!"
	message := fmt.Sprintf("Your trade offer for '%s' was accepted by the seller", productName)
	n.Create(offererID, models.NotifTradeAccepted, title, message, offerID, models.RelatedTradeOffer)
}

func (n *Notifier) TradeOfferRejected(offererID, offerID uint, productName string) {
	title := "Trade Offer Declined"
	message := fmt.Sprintf("Your trade offer for '%s' was declined by the seller", productName)
	n.Create(offererID, models.NotifTradeRejected, title, message, offerID, models.RelatedTradeOffer)
}
