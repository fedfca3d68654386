package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SigningIdentity is the per-session Ed25519 key pair a client generates
// when it creates or joins a chat. It authenticates ciphertexts for the
// lifetime of one ChatContext; it is never persisted and never tied to a
// long-lived account.
type SigningIdentity struct {
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
}

// NewSigningIdentity generates a fresh per-session Ed25519 key pair.
func NewSigningIdentity() (*SigningIdentity, error) {
	priv, pub, err := GenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("generate signing identity: %w", err)
	}
	return &SigningIdentity{Priv: priv, Pub: pub}, nil
}

// Fingerprint returns a short display fingerprint of the signing public key,
// suitable for out-of-band comparison between participants: SHA-256 of the
// key, truncated to 10 bytes (20 hex chars).
func (s *SigningIdentity) Fingerprint() string {
	sum := sha256.Sum256(s.Pub)
	return hex.EncodeToString(sum[:10])
}

// Close wipes the private key.
func (s *SigningIdentity) Close() {
	Wipe(s.Priv)
}
