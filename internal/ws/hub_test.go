package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub, userID uint) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.HandleConnection(userID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}

func TestHubPublishReachesConnectedClient(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 1)

	// Registration races the dial; keep publishing until the read lands.
	event := Event{Type: EventTypeUploadProgress, Payload: "hello", Timestamp: time.Now()}
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish(1, event)
			}
		}
	}()

	got := readEvent(t, conn)
	if got.Type != EventTypeUploadProgress {
		t.Errorf("event type = %s, want %s", got.Type, EventTypeUploadProgress)
	}
	if got.Payload != "hello" {
		t.Errorf("payload = %v, want hello", got.Payload)
	}
}

func TestHubPublishIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 1)

	hub.Publish(2, Event{Type: EventTypeUploadProgress, Timestamp: time.Now()})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var event Event
	if err := conn.ReadJSON(&event); err == nil {
		t.Errorf("received an event meant for another user: %+v", event)
	}
}
