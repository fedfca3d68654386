package relay_test

import (
	"log/slog"
	"io"
	"testing"

	"rchat/internal/domain"
	"rchat/internal/protocol/wire"
	"rchat/internal/relay"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoom_OneToOneCapIsTwo(t *testing.T) {
	room := relay.NewRoom(domain.ChatType{Group: false})

	if _, _, err := room.Join("alice", make(chan wire.ServerMessage, 1)); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, _, err := room.Join("bob", make(chan wire.ServerMessage, 1)); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if _, _, err := room.Join("carol", make(chan wire.ServerMessage, 1)); err != domain.ErrRoomFull {
		t.Fatalf("third join error = %v, want ErrRoomFull", err)
	}
}

func TestRoom_GroupCapIsMaxParticipants(t *testing.T) {
	room := relay.NewRoom(domain.ChatType{Group: true, MaxParticipants: 1})

	if _, _, err := room.Join("alice", make(chan wire.ServerMessage, 1)); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, _, err := room.Join("bob", make(chan wire.ServerMessage, 1)); err != domain.ErrRoomFull {
		t.Fatalf("second join error = %v, want ErrRoomFull", err)
	}
}

func TestRoom_BroadcastExcludesGivenParticipant(t *testing.T) {
	room := relay.NewRoom(domain.ChatType{Group: true, MaxParticipants: 3})

	aliceCh := make(chan wire.ServerMessage, 1)
	bobCh := make(chan wire.ServerMessage, 1)

	alice, _, _ := room.Join("alice", aliceCh)
	_, _, _ = room.Join("bob", bobCh)

	sent := room.Broadcast(wire.ServerMessage{Type: wire.ServerUserLeft}, alice.ID, discardLogger())
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	select {
	case <-aliceCh:
		t.Fatalf("excluded participant should not have received the broadcast")
	default:
	}
	select {
	case <-bobCh:
	default:
		t.Fatalf("non-excluded participant should have received the broadcast")
	}
}

func TestRoom_BroadcastToAllIncludesSender(t *testing.T) {
	room := relay.NewRoom(domain.ChatType{Group: false})

	aliceCh := make(chan wire.ServerMessage, 1)
	_, _, _ = room.Join("alice", aliceCh)

	sent := room.Broadcast(wire.ServerMessage{Type: wire.ServerMessageReceived}, "", discardLogger())
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	select {
	case <-aliceCh:
	default:
		t.Fatalf("expected the lone participant to receive the echoed broadcast")
	}
}

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	reg := relay.NewRegistry()
	roomID := domain.RoomID("room-1")

	a := reg.GetOrCreate(roomID, domain.ChatType{Group: false})
	b := reg.GetOrCreate(roomID, domain.ChatType{Group: true, MaxParticipants: 10})
	if a != b {
		t.Fatalf("GetOrCreate returned a different room for the same id")
	}
}

func TestRegistry_DropRemovesRoom(t *testing.T) {
	reg := relay.NewRegistry()
	roomID := domain.RoomID("room-2")
	reg.GetOrCreate(roomID, domain.ChatType{Group: false})

	reg.Drop(roomID)
	if _, ok := reg.Get(roomID); ok {
		t.Fatalf("room still present after Drop")
	}
}
