// Command relay runs the rchat relay: a TLS-terminated TCP server that
// fans encrypted chat envelopes out to room participants without ever
// holding, or needing, a key to read them.
package main
