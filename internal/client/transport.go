package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"rchat/internal/protocol/wire"
)

// Transport is a framed connection to the relay: every send and receive
// goes through the wire package's length-prefixed tagged-union codec.
type Transport struct {
	conn net.Conn
}

// DialRelay connects to the relay over TLS 1.2/1.3. insecure disables
// certificate verification, for local testing against a self-signed relay
// only; it must never be the default.
func DialRelay(ctx context.Context, addr string, insecure bool) (*Transport, error) {
	dialer := &tls.Dialer{
		Config: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: insecure,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", addr, err)
	}
	return &Transport{conn: conn}, nil
}

// Send encodes and frames a ClientMessage onto the connection.
func (t *Transport) Send(msg wire.ClientMessage) error {
	payload, err := wire.EncodeClient(msg)
	if err != nil {
		return err
	}
	return wire.WriteFrame(t.conn, payload)
}

// Recv reads and decodes the next ServerMessage.
func (t *Transport) Recv() (wire.ServerMessage, error) {
	payload, err := wire.ReadFrame(t.conn)
	if err != nil {
		return wire.ServerMessage{}, err
	}
	return wire.DecodeServer(payload)
}

// Close closes the underlying connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}
