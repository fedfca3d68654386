package domain

// OutboundQueueCapacity is the per-participant buffered channel size for
// relay-to-client fan-out. A slow reader can fall this far behind before
// the relay starts dropping sends to it (logged, not fatal to the room).
const OutboundQueueCapacity = 100

// MaxFrameSize bounds a single wire frame's payload, guarding the relay
// against a client declaring an unreasonable length prefix.
const MaxFrameSize = 1 << 20 // 1 MiB

// OutOfOrderBehind/OutOfOrderAhead bound the ratchet's trial-decryption
// window: a received chain index within this many steps behind or ahead of
// the receiver's current position is still attempted.
const (
	OutOfOrderBehind = 5
	OutOfOrderAhead  = 20
)

// AutoCloseDelaySeconds is how long a client keeps a one-to-one ChatContext
// alive after observing the peer's departure, before tearing it down.
const AutoCloseDelaySeconds = 5
