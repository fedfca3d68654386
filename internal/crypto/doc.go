// Package crypto implements rchat's cryptographic core: chat-code
// generation, the chat-code-to-room-id derivation pipeline, content-key
// derivation, the length-hiding AEAD envelope, per-session Ed25519 signing
// identities, and best-effort secret wiping.
//
// # Contents
//
//   - Chat code generation, strong and numeric (GenerateChatCode)
//   - Chat-code-to-room-id derivation (DeriveRoomID)
//   - Content-key derivation (DeriveContentKey)
//   - XChaCha20-Poly1305 sealing with length-hiding padding (Seal, Open)
//   - Ed25519 session identities and the per-ciphertext signing input
//     (NewSigningIdentity, SignEd25519, VerifyEd25519, SigningInput)
//   - Short public-key fingerprints for display (SigningIdentity.Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// None of this package's outputs are persisted; callers are expected to
// call Wipe on every secret-bearing slice once a ChatContext closes.
package crypto
