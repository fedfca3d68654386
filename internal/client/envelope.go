package client

import (
	"encoding/json"
	"fmt"

	"rchat/internal/domain"
)

// payload is the plaintext JSON structure sealed inside every envelope.
type payload struct {
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// envelope is what actually travels as SendMessage.EncryptedPayload /
// MessageReceived.EncryptedPayload: the sealed ciphertext plus everything a
// receiver needs to verify it, entirely opaque to the relay. SequenceNumber
// and ChainIndex are carried alongside the ciphertext, not inside it, since
// the signature covers them directly per the signing input definition.
type envelope struct {
	Ciphertext     []byte `json:"ciphertext"`
	Signature      []byte `json:"signature"`
	SigningPub     []byte `json:"signing_pub"`
	SequenceNumber uint64 `json:"sequence_number"`
	ChainIndex     uint64 `json:"chain_index"`
}

func encodeEnvelope(e envelope) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: encode envelope: %v", domain.ErrEncryptionFailed, err)
	}
	return b, nil
}

func decodeEnvelope(b []byte) (envelope, error) {
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return envelope{}, fmt.Errorf("%w: decode envelope: %v", domain.ErrDecryptionFailed, err)
	}
	return e, nil
}

func marshalPayload(p payload) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", domain.ErrEncryptionFailed, err)
	}
	return b, nil
}

func unmarshalPayload(b []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return payload{}, fmt.Errorf("%w: decode payload: %v", domain.ErrDecryptionFailed, err)
	}
	return p, nil
}
