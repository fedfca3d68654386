package crypto

import "encoding/base64"

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// B64URL returns unpadded URL-safe base64 encoding, used for chat codes and
// room ids so they are safe to pass on a command line or in a URL fragment.
func B64URL(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

// B64URLDecode decodes unpadded URL-safe base64.
func B64URLDecode(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }
