package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"vestiaire/internal/vtypes"
)

func registerTestClient(t *testing.T, hub *Hub, userID uint) *Client {
	t.Helper()
	client := &Client{
		hub:    hub,
		send:   make(chan []byte, 4),
		UserID: userID,
	}
	hub.register <- client
	return client
}

func receiveEvent(t *testing.T, client *Client) vtypes.RelationEvent {
	t.Helper()
	select {
	case payload := <-client.send:
		var event vtypes.RelationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return vtypes.RelationEvent{}
	}
}

func TestHubDeliversToTargetUserOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := registerTestClient(t, hub, 1)
	bob := registerTestClient(t, hub, 2)

	hub.Deliver(&vtypes.RelationEvent{
		Kind:         vtypes.RelationEventPendingCreated,
		RelationID:   9,
		TargetUserID: 2,
	})

	event := receiveEvent(t, bob)
	if event.Kind != vtypes.RelationEventPendingCreated || event.RelationID != 9 {
		t.Fatalf("unexpected event: %+v", event)
	}

	select {
	case payload := <-alice.send:
		t.Fatalf("event leaked to the wrong user: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsEventForOfflineUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	registerTestClient(t, hub, 1)

	// Nothing to assert beyond "does not block or panic".
	hub.Deliver(&vtypes.RelationEvent{
		Kind:         vtypes.RelationEventPendingAccepted,
		RelationID:   3,
		TargetUserID: 42,
	})
}

func TestHubReplacesConnectionOnReconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	old := registerTestClient(t, hub, 1)
	fresh := registerTestClient(t, hub, 1)

	// The replaced connection's send channel is closed by the hub.
	select {
	case _, ok := <-old.send:
		if ok {
			t.Fatal("expected old send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("old connection was not closed")
	}

	hub.Deliver(&vtypes.RelationEvent{
		Kind:         vtypes.RelationEventPendingCreated,
		RelationID:   5,
		TargetUserID: 1,
	})

	event := receiveEvent(t, fresh)
	if event.RelationID != 5 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerTestClient(t, hub, 1)
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed on unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("unregister did not close the send channel")
	}
}
