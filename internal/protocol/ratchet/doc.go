// Package ratchet implements rchat's forward-secrecy chain: a single,
// one-way chain key seeded from the content key, stepped forward with
// HKDF-Expand-SHA512 on every message sent or received.
//
// Unlike a Diffie-Hellman double ratchet, there is no DH re-keying and no
// second chain: every participant seeds the same chain from the shared
// content key, and a ChatContext holds a single ChainKeyState that Next
// advances on send and MessageKeyAt advances on receive. A message's
// position in the chain (its chain key index) travels on the wire, letting
// a receiver derive the key for that position within a small out-of-order
// window instead of requiring strict ordering.
//
// Concurrency: ChainKeyState is NOT safe for concurrent use. Callers must
// serialise access per ChatContext.
package ratchet
