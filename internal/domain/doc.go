// Package domain defines the core data model shared by the relay and the
// client: chat codes, room identifiers, chat contexts and the relay's
// room/participant bookkeeping. It contains plain types and sentinel
// errors only, no I/O.
package domain
