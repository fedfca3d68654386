// Package wire implements rchat's binary framing and client<->relay
// message taxonomy: a big-endian 32-bit length prefix around a
// JSON-encoded tagged-union payload, matching the framing the original
// Rchat server used over a raw TLS stream (there, bincode; here,
// encoding/json, which the client's envelope encoding also uses).
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"rchat/internal/domain"
)

// ReadFrame reads one length-prefixed frame from r. A frame length of zero
// signals a clean end of session (the peer is done, not an error); callers
// should treat it as io.EOF. A length exceeding domain.MaxFrameSize is a
// protocol violation and the connection must be dropped.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 {
		return nil, io.EOF
	}
	if n > domain.MaxFrameSize {
		return nil, &domain.FrameError{Reason: "frame exceeds maximum size", Length: n}
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

// WriteFrame writes payload to w with a big-endian 32-bit length prefix.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > domain.MaxFrameSize {
		return &domain.FrameError{Reason: "frame exceeds maximum size", Length: uint32(len(payload))}
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// WriteCloseFrame writes the zero-length frame that terminates a session.
func WriteCloseFrame(w io.Writer) error {
	var lenBuf [4]byte
	_, err := w.Write(lenBuf[:])
	return err
}
