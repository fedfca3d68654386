package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"rchat/internal/domain"
)

// Domain-separation strings and Argon2id parameters for the room-id
// derivation pipeline. The salt is fixed: the pipeline's security rests on
// the chat code's entropy, not on a per-room salt, since the creating and
// the joining client must each compute the same room id from the code
// alone.
const (
	roomIDBlake3Domain   = "rchat-v3-room-id-domain-sep:"
	roomIDDoubleHashInfo = "rchat-v3-double-hash-domain:"
	roomIDArgonSalt      = "rchat-v3-room-id-salt-extreme"

	roomIDArgonMemoryKiB = 32 * 1024
	roomIDArgonTime      = 2
	roomIDArgonThreads   = 2
	roomIDArgonKeyLen    = 64
)

// DeriveRoomID computes the public room identifier for a chat code:
// BLAKE3(domain || code) -> SHA3-512(domain || that) -> Argon2id(fixed
// salt) -> base64url. Each stage is one-way, so observing a room id never
// reveals the chat code, and the relay can be handed only the room id.
func DeriveRoomID(code domain.ChatCode) (domain.RoomID, error) {
	if code.Value == "" {
		return "", domain.ErrInvalidChatCode
	}

	h1 := blake3.New(64, nil)
	h1.Write([]byte(roomIDBlake3Domain))
	h1.Write([]byte(code.Value))
	stage1 := h1.Sum(nil)

	h2 := sha3.New512()
	h2.Write([]byte(roomIDDoubleHashInfo))
	h2.Write(stage1)
	stage2 := h2.Sum(nil)

	stage3 := argon2.IDKey(
		stage2,
		[]byte(roomIDArgonSalt),
		roomIDArgonTime,
		roomIDArgonMemoryKiB,
		roomIDArgonThreads,
		roomIDArgonKeyLen,
	)

	Wipe(stage1)
	Wipe(stage2)

	id := domain.RoomID(B64URL(stage3))
	Wipe(stage3)
	if id == "" {
		return "", fmt.Errorf("%w: empty room id", domain.ErrKeyDerivationFailed)
	}
	return id, nil
}
