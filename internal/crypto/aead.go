package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"rchat/internal/domain"
)

const paddingBoundary = 256

// Seal encrypts plaintext under key with XChaCha20-Poly1305, after prefixing
// it with its own length and padding the whole thing out to the next
// 256-byte boundary. Padding hides the plaintext length from a relay or
// network observer who only sees ciphertext sizes; without it, message
// length alone can fingerprint conversation content. The wire layout is
// nonce(24) || ciphertext || tag.
func Seal(key, plaintext []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: bad key size", domain.ErrEncryptionFailed)
	}

	padded := padPlaintext(plaintext)
	defer Wipe(padded)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncryptionFailed, err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, nonce, padded, nil)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Open reverses Seal: it validates and strips the nonce, decrypts, and
// removes the length-hiding padding to recover the original plaintext.
func Open(key, wire []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: bad key size", domain.ErrDecryptionFailed)
	}
	if len(wire) < chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: envelope too short", domain.ErrDecryptionFailed)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}

	nonce := wire[:chacha20poly1305.NonceSizeX]
	sealed := wire[chacha20poly1305.NonceSizeX:]

	padded, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	defer Wipe(padded)

	return unpadPlaintext(padded)
}

// padPlaintext prefixes plaintext with its little-endian length and pads
// the result to the next multiple of paddingBoundary. Each pad byte carries
// the padding length mod 256, mirroring the original protocol's scheme. The
// pad bytes are advisory: Open relies on the length prefix alone and does
// not check them.
func padPlaintext(plaintext []byte) []byte {
	total := 4 + len(plaintext)
	padded := ((total + paddingBoundary - 1) / paddingBoundary) * paddingBoundary
	if padded == total {
		// Already on a boundary: still add one full block so a fixed-size
		// ciphertext never reveals that the plaintext landed exactly on it.
		padded += paddingBoundary
	}
	padLen := padded - total

	out := make([]byte, padded)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(plaintext)))
	copy(out[4:], plaintext)
	padByte := byte(padLen % 256)
	for i := total; i < padded; i++ {
		out[i] = padByte
	}
	return out
}

// unpadPlaintext recovers the original plaintext from a padded buffer,
// validating the declared length against the buffer size.
func unpadPlaintext(padded []byte) ([]byte, error) {
	if len(padded) < 4 {
		return nil, fmt.Errorf("%w: padded envelope too short", domain.ErrDecryptionFailed)
	}
	n := binary.LittleEndian.Uint32(padded[:4])
	if int(n) > len(padded)-4 {
		return nil, fmt.Errorf("%w: declared length exceeds envelope", domain.ErrDecryptionFailed)
	}
	out := make([]byte, n)
	copy(out, padded[4:4+n])
	return out, nil
}
