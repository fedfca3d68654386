package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
)

// GenerateEd25519 returns a new per-session Ed25519 signing key pair.
func GenerateEd25519() (priv ed25519.PrivateKey, pub ed25519.PublicKey, err error) {
	pub, priv, err = ed25519.GenerateKey(rand.Reader)
	return priv, pub, err
}

// SignEd25519 signs msg with priv and returns the signature.
func SignEd25519(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub ed25519.PublicKey, msg, sig []byte) bool {
	return ed25519.Verify(pub, msg, sig)
}

// SigningInput builds the exact byte sequence a sender signs and a receiver
// verifies for one ciphertext: content || LE64(sequence_number) ||
// LE64(chain_key_index). Binding the sequence number and chain position
// into the signature prevents a relay (or a malicious peer) from replaying
// or reordering a signed ciphertext into a different slot.
func SigningInput(content []byte, sequenceNumber, chainKeyIndex uint64) []byte {
	buf := make([]byte, len(content)+16)
	n := copy(buf, content)
	binary.LittleEndian.PutUint64(buf[n:], sequenceNumber)
	binary.LittleEndian.PutUint64(buf[n+8:], chainKeyIndex)
	return buf
}
