package ratchet

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"rchat/internal/crypto"
	"rchat/internal/domain"
)

const (
	chainInitSalt      = "rchat-v3-chain-key-init"
	chainInitMemKiB    = 256 * 1024
	chainInitTime      = 6
	chainInitThreads   = 8
	chainKeyLen        = 64
	chainStepInfo      = "rchat-v3-chain-ratchet-forward-secrecy:"
	chainMessageKeyLen = 32
)

// Init seeds a ChainKeyState from the chat's content key via a deliberately
// expensive Argon2id pass, so recovering a later chain key never hands an
// attacker a shortcut back to the content key itself.
func Init(contentKey []byte) (*domain.ChainKeyState, error) {
	if len(contentKey) == 0 {
		return nil, fmt.Errorf("%w: empty content key", domain.ErrKeyDerivationFailed)
	}
	key := argon2.IDKey(contentKey, []byte(chainInitSalt), chainInitTime, chainInitMemKiB, chainInitThreads, chainKeyLen)
	return &domain.ChainKeyState{
		Key:     key,
		Index:   0,
		Skipped: make(map[uint64][]byte),
	}, nil
}

// Next advances the chain one step and returns the message key for the
// position it just left. The chain key is overwritten in place (a one-way
// ratchet: there is no inverse step), so compromising the state after
// Next returns reveals nothing about earlier message keys.
func Next(state *domain.ChainKeyState) ([]byte, error) {
	if state == nil || len(state.Key) == 0 {
		return nil, fmt.Errorf("%w: chain uninitialised", domain.ErrKeyDerivationFailed)
	}
	messageKey, nextKey, err := step(state.Key, state.Index)
	if err != nil {
		return nil, err
	}
	crypto.Wipe(state.Key)
	state.Key = nextKey
	state.Index++
	return messageKey, nil
}

// MessageKeyAt derives the message key for an arbitrary chain index without
// mutating state beyond advancing the chain to reach it. It services the
// out-of-order trial-decryption window: a receiver may need the key for a
// position it has not reached yet (ahead), or one it already stepped past
// and cached (behind, served from state.Skipped).
func MessageKeyAt(state *domain.ChainKeyState, index uint64) ([]byte, error) {
	if state == nil || len(state.Key) == 0 {
		return nil, fmt.Errorf("%w: chain uninitialised", domain.ErrKeyDerivationFailed)
	}
	if index < state.Index {
		if mk, ok := state.Skipped[index]; ok {
			return mk, nil
		}
		return nil, fmt.Errorf("%w: message key for index %d no longer available", domain.ErrDecryptionFailed, index)
	}

	// Replay forward from the current position, caching every skipped key
	// so a later out-of-order arrival at one of those positions succeeds.
	key := append([]byte(nil), state.Key...)
	idx := state.Index
	var messageKey []byte
	for idx <= index {
		mk, nextKey, err := step(key, idx)
		if err != nil {
			return nil, err
		}
		crypto.Wipe(key)
		key = nextKey
		if idx == index {
			messageKey = mk
		} else {
			state.Skipped[idx] = mk
		}
		idx++
	}
	crypto.Wipe(state.Key)
	state.Key = key
	state.Index = idx
	pruneSkipped(state, index)
	return messageKey, nil
}

// step derives (messageKey, nextChainKey) from chainKey at position index
// using HKDF-Expand-SHA512 with a position-bound info string.
func step(chainKey []byte, index uint64) (messageKey, nextChainKey []byte, err error) {
	info := make([]byte, len(chainStepInfo)+8)
	n := copy(info, chainStepInfo)
	binary.LittleEndian.PutUint64(info[n:], index)

	out := hkdf.Expand(sha512.New, chainKey, info)
	buf := make([]byte, chainKeyLen+chainMessageKeyLen)
	if _, err := io.ReadFull(out, buf); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrKeyDerivationFailed, err)
	}
	nextChainKey = buf[:chainKeyLen]
	messageKey = buf[chainKeyLen:]
	return messageKey, nextChainKey, nil
}

// pruneSkipped drops cached skipped keys that have fallen outside the
// behind-window relative to the chain's new position, so Skipped cannot
// grow without bound over a long-lived chat.
func pruneSkipped(state *domain.ChainKeyState, current uint64) {
	for idx := range state.Skipped {
		if idx+domain.OutOfOrderBehind < current {
			crypto.Wipe(state.Skipped[idx])
			delete(state.Skipped, idx)
		}
	}
}

// Close wipes the chain key and every cached skipped message key.
func Close(state *domain.ChainKeyState) {
	if state == nil {
		return
	}
	crypto.Wipe(state.Key)
	for idx, mk := range state.Skipped {
		crypto.Wipe(mk)
		delete(state.Skipped, idx)
	}
}
