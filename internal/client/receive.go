package client

import (
	"bytes"
	"fmt"

	"rchat/internal/crypto"
	"rchat/internal/domain"
	"rchat/internal/protocol/ratchet"
)

// Received is a decrypted, (un)verified incoming message.
type Received struct {
	Username string
	Content  string
	// Verified is false when the Ed25519 signature itself does not check
	// out, or when the sender's signing key mismatches a previously pinned
	// key. Per the chat's trust model this is a display flag, not a reason
	// to drop the message: the AEAD has already authenticated the
	// ciphertext by the time Open gets here, so a bad signature means the
	// content is intact but its claimed origin can't be trusted.
	Verified bool
}

// ErrDuplicate is returned by Open when messageID has already been
// delivered: most commonly a sender's own SendMessage echoed back by the
// relay's broadcast-to-all fan-out.
var ErrDuplicate = fmt.Errorf("message already delivered")

// Open decrypts and verifies a MessageReceived envelope against ctx. Since
// messages can arrive out of the order they were sent, it derives the key
// for the chain index the envelope declares: behind the chain's position
// from the Skipped cache, ahead (at most OutOfOrderAhead steps) by
// advancing the chain with MessageKeyAt. Only that one index is tried; no
// other position in the window is attempted.
func Open(ctx *domain.ChatContext, messageID string, envelopeBytes []byte) (Received, error) {
	if ctx.Seen[messageID] {
		return Received{}, ErrDuplicate
	}

	env, err := decodeEnvelope(envelopeBytes)
	if err != nil {
		return Received{}, err
	}

	if env.ChainIndex > ctx.Chain.Index+domain.OutOfOrderAhead {
		return Received{}, fmt.Errorf("%w: chain index %d too far ahead of chain position %d", domain.ErrDecryptionFailed, env.ChainIndex, ctx.Chain.Index)
	}

	messageKey, err := ratchet.MessageKeyAt(ctx.Chain, env.ChainIndex)
	if err != nil {
		return Received{}, err
	}
	defer crypto.Wipe(messageKey)

	plaintext, err := crypto.Open(messageKey, env.Ciphertext)
	if err != nil {
		return Received{}, err
	}
	defer crypto.Wipe(plaintext)

	p, err := unmarshalPayload(plaintext)
	if err != nil {
		return Received{}, err
	}

	// A bad signature downgrades the message to unverified instead of
	// dropping it: the AEAD tag already guarantees the plaintext wasn't
	// tampered with, so what's in question is who sent it, not what it
	// says. A forged or absent signature must not pin env.SigningPub as
	// trusted for this username, so TOFU bookkeeping only runs once the
	// signature itself checks out.
	verified := crypto.VerifyEd25519(env.SigningPub, crypto.SigningInput(plaintext, env.SequenceNumber, env.ChainIndex), env.Signature)
	if verified {
		if pinned, ok := ctx.PeerKeys[p.Username]; ok {
			verified = bytes.Equal(pinned, env.SigningPub)
		} else {
			ctx.PeerKeys[p.Username] = env.SigningPub
		}
	}

	ctx.Seen[messageID] = true

	return Received{
		Username: p.Username,
		Content:  p.Content,
		Verified: verified,
	}, nil
}
