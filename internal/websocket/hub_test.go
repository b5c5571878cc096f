package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 8)}
	hub.Register <- client

	hub.Broadcast <- NewEvent(EVENT_ASSET_UPLOADED, "a.jpg")

	select {
	case payload := <-client.Send:
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal broadcast payload: %v", err)
		}
		if event.Type != EVENT_ASSET_UPLOADED {
			t.Errorf("event type = %q, want %q", event.Type, EVENT_ASSET_UPLOADED)
		}
		if event.FileName != "a.jpg" {
			t.Errorf("event file = %q, want a.jpg", event.FileName)
		}
		if event.ID == "" {
			t.Error("event has no ID")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 8)}
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("expected closed Send channel after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send channel not closed")
	}
}
