package wire_test

import (
	"bytes"
	"io"
	"testing"

	"rchat/internal/protocol/wire"
)

func TestWriteReadFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"type":"join_chat"}`)

	if err := wire.WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := wire.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, payload)
	}
}

func TestReadFrame_ZeroLengthIsEOF(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteCloseFrame(&buf); err != nil {
		t.Fatalf("WriteCloseFrame: %v", err)
	}
	if _, err := wire.ReadFrame(&buf); err != io.EOF {
		t.Fatalf("ReadFrame on close frame = %v, want io.EOF", err)
	}
}

func TestReadFrame_OversizedLengthIsRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := wire.ReadFrame(&buf); err == nil {
		t.Fatalf("expected an oversized frame to be rejected")
	}
}

func TestClientMessage_EncodeDecodeRoundTrip(t *testing.T) {
	msg := wire.ClientMessage{
		Type: wire.ClientSendMessage,
		SendMessage: &wire.SendMessage{
			RoomID:           "room-123",
			EncryptedPayload: []byte{1, 2, 3, 4},
			MessageID:        "msg-1",
		},
	}

	payload, err := wire.EncodeClient(msg)
	if err != nil {
		t.Fatalf("EncodeClient: %v", err)
	}
	got, err := wire.DecodeClient(payload)
	if err != nil {
		t.Fatalf("DecodeClient: %v", err)
	}
	if got.Type != wire.ClientSendMessage || got.SendMessage == nil {
		t.Fatalf("decoded message missing SendMessage variant: %+v", got)
	}
	if got.SendMessage.MessageID != "msg-1" {
		t.Fatalf("MessageID = %q, want %q", got.SendMessage.MessageID, "msg-1")
	}
}

func TestServerMessage_EncodeDecodeRoundTrip(t *testing.T) {
	msg := wire.ServerMessage{
		Type: wire.ServerUserJoined,
		UserJoined: &wire.UserJoined{
			RoomID:   "room-123",
			Username: "alice",
		},
	}

	payload, err := wire.EncodeServer(msg)
	if err != nil {
		t.Fatalf("EncodeServer: %v", err)
	}
	got, err := wire.DecodeServer(payload)
	if err != nil {
		t.Fatalf("DecodeServer: %v", err)
	}
	if got.Type != wire.ServerUserJoined || got.UserJoined == nil {
		t.Fatalf("decoded message missing UserJoined variant: %+v", got)
	}
	if got.UserJoined.Username != "alice" {
		t.Fatalf("Username = %q, want %q", got.UserJoined.Username, "alice")
	}
}
