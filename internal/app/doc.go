// Package app wires the client's runtime dependencies from Config.
//
// Unlike a persisted-identity CLI, rchat's client has nothing to load from
// disk: Wire's only job is dialing the relay over TLS. Everything else
// (the chat code, the derived ChatContext, the ratchet) lives in memory for
// the lifetime of one chat and is built by the caller per-chat, not once at
// startup.
package app
