package crypto

import (
	"crypto/rand"
	"fmt"

	"rchat/internal/domain"
)

const (
	strongChatCodeBytes = 64
	numericChatCodeMin  = 100000
	numericChatCodeMax  = 999999
)

// GenerateChatCode generates a fresh chat code of the requested kind. The
// strong form is a 64-byte random secret; the numeric form is a 6-digit
// decimal code, easier to read aloud at the cost of a much smaller
// keyspace that content-key derivation must compensate for.
func GenerateChatCode(kind domain.ChatCodeKind) (domain.ChatCode, error) {
	switch kind {
	case domain.ChatCodeNumeric:
		code, err := generateNumericCode()
		if err != nil {
			return domain.ChatCode{}, fmt.Errorf("%w: %v", domain.ErrKeyDerivationFailed, err)
		}
		return domain.ChatCode{Kind: domain.ChatCodeNumeric, Value: code}, nil
	default:
		var raw [strongChatCodeBytes]byte
		if _, err := rand.Read(raw[:]); err != nil {
			return domain.ChatCode{}, fmt.Errorf("%w: %v", domain.ErrKeyDerivationFailed, err)
		}
		return domain.ChatCode{Kind: domain.ChatCodeStrong, Value: B64URL(raw[:])}, nil
	}
}

// generateNumericCode draws a uniform 6-digit decimal string in
// [100000, 999999] via rejection sampling over a 32-bit random draw,
// avoiding modulo bias.
func generateNumericCode() (string, error) {
	span := uint64(numericChatCodeMax - numericChatCodeMin + 1)
	limit := (uint64(1) << 32) - (uint64(1)<<32)%span
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}
		v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
		// Reject draws that would bias the distribution toward the low end.
		if v >= limit {
			continue
		}
		n := numericChatCodeMin + int(v%span)
		return fmt.Sprintf("%06d", n), nil
	}
}
