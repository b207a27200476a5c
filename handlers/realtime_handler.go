package handlers

import (
	"github.com/cdanpc/CampusMart/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RealtimeHandler upgrades authenticated connections and attaches them to the
// push hub. Notifications and new-message events are delivered over this
// channel instead of the client polling for them.
type RealtimeHandler struct {
	Hub *ws.Hub
}

func NewRealtimeHandler(hub *ws.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// Upgrade rejects non-websocket requests before the upgrade happens. Browser
// websocket clients cannot set headers, so a ?token= query parameter is
// accepted in place of the Authorization header.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if token := c.Query("token"); token != "" && c.Get("Authorization") == "" {
		c.Request().Header.Set("Authorization", "Bearer "+token)
	}
	return c.Next()
}

// Handler serves the websocket endpoint. The profile ID comes from the JWT
// middleware that ran before the upgrade.
func (h *RealtimeHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		profileID, ok := conn.Locals("profile_id").(uint)
		if !ok || profileID == 0 {
			conn.Close()
			return
		}

		client := &ws.Client{
			Hub:       h.Hub,
			Conn:      conn,
			Send:      make(chan []byte, 64),
			ProfileID: profileID,
		}

		h.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}
