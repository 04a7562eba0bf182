package ws

import (
	"encoding/json"
	"testing"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
)

func TestPublishAfterClientClose(t *testing.T) {
	hub := NewHub()
	room := hub.GetOrCreateRoom("consultation_1")
	patient := NewClient(1, domain.RolePatient)
	doctor := NewClient(2, domain.RoleDoctor)
	room.Join(patient)
	room.Join(doctor)

	// A client that disconnected but has not left the room yet must not make
	// the publisher panic on its closed channel.
	patient.Close()
	if err := hub.Publish("consultation_1", "new_message", map[string]uint{"id": 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case raw := <-doctor.Send:
		var envelope struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if envelope.Event != "new_message" {
			t.Fatalf("event = %q, want new_message", envelope.Event)
		}
	default:
		t.Fatalf("open client received nothing")
	}
	select {
	case _, ok := <-patient.Send:
		if ok {
			t.Fatalf("closed client received a frame")
		}
	default:
	}
}

func TestPublishDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	room := hub.GetOrCreateRoom("consultation_2")
	client := NewClient(1, domain.RolePatient)
	room.Join(client)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("x")
	}
	// Full buffer: the publish must return instead of blocking.
	if err := hub.Publish("consultation_2", "new_message", map[string]uint{"id": 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(client.Send) != cap(client.Send) {
		t.Fatalf("drop expected, queue length %d", len(client.Send))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client := NewClient(1, domain.RolePatient)
	client.Close()
	client.Close()
}

func TestRemoveRoomIfEmpty(t *testing.T) {
	hub := NewHub()
	room := hub.GetOrCreateRoom("consultation_3")
	client := NewClient(1, domain.RolePatient)
	room.Join(client)

	// Occupied rooms survive a removal attempt.
	hub.RemoveRoomIfEmpty("consultation_3")
	if hub.GetOrCreateRoom("consultation_3") != room {
		t.Fatalf("occupied room was removed")
	}

	room.Leave(client)
	hub.RemoveRoomIfEmpty("consultation_3")
	if hub.GetOrCreateRoom("consultation_3") == room {
		t.Fatalf("empty room survived removal")
	}
}
