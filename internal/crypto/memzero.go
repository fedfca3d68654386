package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe zeroes the provided buffer in place. Used on every secret-bearing
// slice (content keys, chain keys, signing keys, plaintexts) once it is no
// longer needed, per the zeroization invariant every ChatContext.Close
// call relies on. Best-effort: a copy of b may still linger in a register,
// a GC-moved block, or a swapped page, but this closes the common window.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(&b)
}
