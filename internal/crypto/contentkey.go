package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"lukechampine.com/blake3"

	"rchat/internal/domain"
)

const (
	numericStretchSalt    = "rchat-v3-numeric-extreme-salt"
	numericStretchMemKiB  = 512 * 1024
	numericStretchTime    = 8
	numericStretchThreads = 4
	numericStretchKeyLen  = 64

	finalSaltDomain  = "rchat-v3-e2ee-salt-domain:"
	finalArgonMemKiB = 256 * 1024
	finalArgonTime   = 6
	finalArgonThread = 8
	finalKeyLen      = 32
)

// DeriveContentKey derives the 32-byte XChaCha20-Poly1305 key shared by a
// chat's participants directly from the chat code, without ever producing
// the room id as an intermediate. Numeric codes carry only ~20 bits of
// entropy, so they are first stretched through a deliberately expensive
// Argon2id pass before the two code kinds converge on the same final
// derivation; strong codes already carry 512 bits of entropy and enter the
// final step directly.
func DeriveContentKey(code domain.ChatCode) ([]byte, error) {
	if code.Value == "" {
		return nil, domain.ErrInvalidChatCode
	}

	var secret []byte
	switch code.Kind {
	case domain.ChatCodeNumeric:
		secret = argon2.IDKey(
			[]byte(code.Value),
			[]byte(numericStretchSalt),
			numericStretchTime,
			numericStretchMemKiB,
			numericStretchThreads,
			numericStretchKeyLen,
		)
	default:
		raw, err := B64URLDecode(code.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: decode chat code: %v", domain.ErrInvalidChatCode, err)
		}
		secret = raw
	}
	defer Wipe(secret)

	saltHash := blake3.New(32, nil)
	saltHash.Write([]byte(finalSaltDomain))
	saltHash.Write(secret)
	salt := saltHash.Sum(nil)
	defer Wipe(salt)

	key := argon2.IDKey(secret, salt, finalArgonTime, finalArgonMemKiB, finalArgonThread, finalKeyLen)
	if len(key) != finalKeyLen {
		return nil, fmt.Errorf("%w: unexpected key length", domain.ErrKeyDerivationFailed)
	}
	return key, nil
}
