package client

import (
	"fmt"

	"rchat/internal/crypto"
	"rchat/internal/domain"
	"rchat/internal/protocol/ratchet"
)

// NewChatContext derives a ChatContext from a chat code: the room id and
// content key via the crypto package's derivation pipeline, the shared
// forward-secrecy chain seeded from that content key, and a fresh
// per-session Ed25519 signing identity.
func NewChatContext(code domain.ChatCode, chatType domain.ChatType, username string) (*domain.ChatContext, error) {
	roomID, err := crypto.DeriveRoomID(code)
	if err != nil {
		return nil, fmt.Errorf("derive room id: %w", err)
	}
	contentKey, err := crypto.DeriveContentKey(code)
	if err != nil {
		return nil, fmt.Errorf("derive content key: %w", err)
	}
	chain, err := ratchet.Init(contentKey)
	if err != nil {
		return nil, fmt.Errorf("init ratchet chain: %w", err)
	}
	identity, err := crypto.NewSigningIdentity()
	if err != nil {
		return nil, fmt.Errorf("generate signing identity: %w", err)
	}

	return &domain.ChatContext{
		RoomID:      roomID,
		ChatType:    chatType,
		Username:    username,
		ContentKey:  contentKey,
		Chain:       chain,
		SigningPriv: identity.Priv,
		SigningPub:  identity.Pub,
		Pending:     make(map[string]*domain.PendingMessage),
		Seen:        make(map[string]bool),
		PeerKeys:    make(map[string][]byte),
	}, nil
}

// Close zeroizes every secret-bearing field of ctx. Per the zeroization
// invariant, callers must call this exactly once a ChatContext is torn
// down, whether by LeaveChat, auto-close, or process exit.
func Close(ctx *domain.ChatContext) {
	if ctx == nil {
		return
	}
	crypto.Wipe(ctx.ContentKey)
	crypto.Wipe(ctx.SigningPriv)
	ratchet.Close(ctx.Chain)
	for id, pm := range ctx.Pending {
		crypto.Wipe(pm.Frame)
		delete(ctx.Pending, id)
	}
}
