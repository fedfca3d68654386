package ratchet_test

import (
	"bytes"
	"testing"

	"rchat/internal/protocol/ratchet"
)

func TestChain_SequentialStepsProduceDistinctKeys(t *testing.T) {
	contentKey := bytes.Repeat([]byte{0x11}, 32)
	state, err := ratchet.Init(contentKey)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	mk0, err := ratchet.Next(state)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	mk1, err := ratchet.Next(state)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if bytes.Equal(mk0, mk1) {
		t.Fatalf("sequential message keys must differ")
	}
	if state.Index != 2 {
		t.Fatalf("index = %d, want 2", state.Index)
	}
}

func TestChain_SendAndReceiveAgreeOnSharedSeed(t *testing.T) {
	contentKey := bytes.Repeat([]byte{0x22}, 32)

	send, err := ratchet.Init(contentKey)
	if err != nil {
		t.Fatalf("Init send: %v", err)
	}
	recv, err := ratchet.Init(contentKey)
	if err != nil {
		t.Fatalf("Init recv: %v", err)
	}

	mk, err := ratchet.Next(send)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	peerMK, err := ratchet.MessageKeyAt(recv, 0)
	if err != nil {
		t.Fatalf("MessageKeyAt: %v", err)
	}
	if !bytes.Equal(mk, peerMK) {
		t.Fatalf("sender and receiver derived different message keys for index 0")
	}
}

func TestChain_OutOfOrderWithinWindowSucceeds(t *testing.T) {
	contentKey := bytes.Repeat([]byte{0x33}, 32)
	send, _ := ratchet.Init(contentKey)
	recv, _ := ratchet.Init(contentKey)

	var sent [][]byte
	for i := 0; i < 5; i++ {
		mk, err := ratchet.Next(send)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		sent = append(sent, mk)
	}

	// Receiver observes position 4 before position 1 (out of order).
	mk4, err := ratchet.MessageKeyAt(recv, 4)
	if err != nil {
		t.Fatalf("MessageKeyAt(4): %v", err)
	}
	if !bytes.Equal(mk4, sent[4]) {
		t.Fatalf("message key at index 4 mismatch")
	}

	mk1, err := ratchet.MessageKeyAt(recv, 1)
	if err != nil {
		t.Fatalf("MessageKeyAt(1) after advancing past it: %v", err)
	}
	if !bytes.Equal(mk1, sent[1]) {
		t.Fatalf("message key at index 1 mismatch")
	}
}

func TestChain_CloseWipesKeyMaterial(t *testing.T) {
	contentKey := bytes.Repeat([]byte{0x44}, 32)
	state, _ := ratchet.Init(contentKey)
	_, _ = ratchet.Next(state)

	ratchet.Close(state)
	for _, b := range state.Key {
		if b != 0 {
			t.Fatalf("chain key not wiped after Close")
		}
	}
}
