package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitOnline(t *testing.T, hub *Hub, profileID uint) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.IsProfileOnline(profileID) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("profile %d never came online", profileID)
}

func TestSendEventToProfile(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), ProfileID: 7}
	hub.Register <- client
	waitOnline(t, hub, 7)

	hub.SendEventToProfile(7, "notification", map[string]interface{}{"title": "New order"})

	select {
	case raw := <-client.Send:
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "notification", event["type"])
		data := event["data"].(map[string]interface{})
		assert.Equal(t, "New order", data["title"])
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestSendToOfflineProfileIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nothing connected for this profile; must not block or panic.
	hub.SendEventToProfile(42, "notification", map[string]string{"title": "ignored"})
	assert.False(t, hub.IsProfileOnline(42))
}

func TestUnregisterTakesProfileOffline(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), ProfileID: 9}
	hub.Register <- client
	waitOnline(t, hub, 9)

	hub.Unregister <- client

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && hub.IsProfileOnline(9) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, hub.IsProfileOnline(9))
}

func TestSlowConsumerGetsUnregistered(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), ProfileID: 11}
	hub.Register <- client
	waitOnline(t, hub, 11)

	// Fill the buffer so the next delivery cannot be queued.
	client.Send <- []byte("first")
	hub.SendToProfile(11, []byte("second"))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && hub.IsProfileOnline(11) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, hub.IsProfileOnline(11))
}

func TestMultipleConnectionsPerProfile(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &Client{Hub: hub, Send: make(chan []byte, 1), ProfileID: 3}
	second := &Client{Hub: hub, Send: make(chan []byte, 1), ProfileID: 3}
	hub.Register <- first
	hub.Register <- second

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mutex.Lock()
		tracked := len(hub.profileClients[3])
		hub.mutex.Unlock()
		if tracked == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.SendToProfile(3, []byte("hello"))

	for _, c := range []*Client{first, second} {
		select {
		case raw := <-c.Send:
			assert.Equal(t, "hello", string(raw))
		case <-time.After(time.Second):
			t.Fatal("connection did not receive the event")
		}
	}
}
