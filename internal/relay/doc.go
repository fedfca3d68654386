// Package relay implements the live chat-room side of rchat: an in-memory
// registry of rooms keyed by room id, each holding its connected
// participants, and the fan-out logic used to broadcast a message or a
// join/leave notification to them.
//
// The relay never sees a chat code, a content key, or plaintext message
// content — only room ids (already one-way derived by the client) and
// opaque encrypted payloads. It holds no state on disk; a restart loses
// every room.
package relay
