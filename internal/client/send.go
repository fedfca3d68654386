package client

import (
	"fmt"
	"time"

	"rchat/internal/crypto"
	"rchat/internal/domain"
	"rchat/internal/protocol/ratchet"
	"rchat/internal/protocol/wire"
)

// Seal advances ctx's forward-secrecy chain one step and produces the opaque
// envelope bytes a SendMessage carries. The returned message id has the
// form "{username}-{sequence_number}-{nanos}": unique per sender per
// process without a coordinator, and it is what the relay's broadcast
// echoes back verbatim, letting the sender recognise its own message.
func Seal(ctx *domain.ChatContext, content string, nowUnix int64) (messageID string, envelopeBytes []byte, err error) {
	messageKey, err := ratchet.Next(ctx.Chain)
	if err != nil {
		return "", nil, fmt.Errorf("advance send chain: %w", err)
	}
	defer crypto.Wipe(messageKey)

	chainIndex := ctx.Chain.Index - 1 // the position Next just consumed

	plaintext, err := marshalPayload(payload{
		Username:  ctx.Username,
		Content:   content,
		Timestamp: nowUnix,
	})
	if err != nil {
		return "", nil, err
	}
	defer crypto.Wipe(plaintext)

	ciphertext, err := crypto.Seal(messageKey, plaintext)
	if err != nil {
		return "", nil, fmt.Errorf("seal message: %w", err)
	}

	sequenceNumber := ctx.NextSequence
	ctx.NextSequence++

	// Signed over content_bytes, not the ciphertext: the recipient verifies
	// against the plaintext it decrypts, so the signature authenticates the
	// message's origin and ordering independent of the AEAD's own integrity
	// check.
	signature := crypto.SignEd25519(ctx.SigningPriv, crypto.SigningInput(plaintext, sequenceNumber, chainIndex))

	envelopeBytes, err = encodeEnvelope(envelope{
		Ciphertext:     ciphertext,
		Signature:      signature,
		SigningPub:     ctx.SigningPub,
		SequenceNumber: sequenceNumber,
		ChainIndex:     chainIndex,
	})
	if err != nil {
		return "", nil, err
	}

	messageID = fmt.Sprintf("%s-%d-%d", ctx.Username, sequenceNumber, time.Now().UnixNano())
	return messageID, envelopeBytes, nil
}

// Enqueue frames a sealed envelope as a ClientMessage and records it in
// ctx.Pending, awaiting the relay's MessageAck. Transport.Send is left to the
// caller so retry loops can resend Frame without resealing.
//
// It also marks messageID as Seen: the relay's SendMessage handling
// broadcasts MessageReceived to every participant including the sender, so
// the sender will shortly see its own message echoed back. Pre-marking it
// here means Open recognises and silently drops that echo instead of
// displaying the message a second time.
func Enqueue(ctx *domain.ChatContext, messageID string, envelopeBytes []byte) (wire.ClientMessage, error) {
	msg := wire.ClientMessage{
		Type: wire.ClientSendMessage,
		SendMessage: &wire.SendMessage{
			RoomID:           ctx.RoomID.String(),
			EncryptedPayload: envelopeBytes,
			MessageID:        messageID,
		},
	}
	frame, err := wire.EncodeClient(msg)
	if err != nil {
		return wire.ClientMessage{}, fmt.Errorf("encode send_message: %w", err)
	}
	ctx.Pending[messageID] = &domain.PendingMessage{
		MessageID: messageID,
		Frame:     frame,
		Attempts:  1,
	}
	ctx.Seen[messageID] = true
	return msg, nil
}

// Acknowledge clears a PendingMessage once the relay confirms receipt via
// MessageAck. A message id with no matching entry is ignored: it may have
// already been acknowledged, or belong to a prior, already-closed chat.
func Acknowledge(ctx *domain.ChatContext, messageID string) {
	delete(ctx.Pending, messageID)
}

// DueForRetry returns pending messages that have not exceeded
// domain.MaxSendAttempts, incrementing their attempt count. Messages that
// have exhausted their attempts are dropped from ctx.Pending and returned
// separately so the caller can surface a permanent-failure notice.
func DueForRetry(ctx *domain.ChatContext) (retry []*domain.PendingMessage, failed []*domain.PendingMessage) {
	for id, pm := range ctx.Pending {
		if pm.Attempts >= domain.MaxSendAttempts {
			failed = append(failed, pm)
			delete(ctx.Pending, id)
			continue
		}
		pm.Attempts++
		retry = append(retry, pm)
	}
	return retry, failed
}
