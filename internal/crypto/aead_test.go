package crypto_test

import (
	"bytes"
	"testing"

	"rchat/internal/crypto"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, 32)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	wire, err := crypto.Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := crypto.Open(key, wire)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestSeal_PadsToBoundary(t *testing.T) {
	key := bytes.Repeat([]byte{0x5b}, 32)
	short := []byte("hi")
	long := bytes.Repeat([]byte{0x01}, 1000)

	wireShort, err := crypto.Seal(key, short)
	if err != nil {
		t.Fatalf("Seal short: %v", err)
	}
	wireLong, err := crypto.Seal(key, long)
	if err != nil {
		t.Fatalf("Seal long: %v", err)
	}

	// The short plaintext pads to 256 bytes and the 1000-byte one to 1024.
	// Here we only assert the padded envelope size is always a multiple of
	// the boundary once the fixed nonce+tag overhead is removed.
	const overhead = 24 + 16 // XChaCha20-Poly1305 nonce + tag
	if (len(wireShort)-overhead)%256 != 0 {
		t.Fatalf("short envelope not padded to a 256-byte boundary: %d", len(wireShort)-overhead)
	}
	if (len(wireLong)-overhead)%256 != 0 {
		t.Fatalf("long envelope not padded to a 256-byte boundary: %d", len(wireLong)-overhead)
	}
}

func TestOpen_RejectsTamperedCiphertext(t *testing.T) {
	key := bytes.Repeat([]byte{0x5c}, 32)
	wire, err := crypto.Seal(key, []byte("hello"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	wire[len(wire)-1] ^= 0xff

	if _, err := crypto.Open(key, wire); err == nil {
		t.Fatalf("expected tampered ciphertext to fail decryption")
	}
}

func TestOpen_RejectsWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x5d}, 32)
	wrongKey := bytes.Repeat([]byte{0x5e}, 32)

	wire, err := crypto.Seal(key, []byte("hello"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := crypto.Open(wrongKey, wire); err == nil {
		t.Fatalf("expected decryption with the wrong key to fail")
	}
}
