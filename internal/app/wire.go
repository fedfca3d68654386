package app

import (
	"context"
	"fmt"

	"rchat/internal/client"
)

// Wire bundles the dialed relay transport for the CLI commands to use.
type Wire struct {
	Config    Config
	Transport *client.Transport
}

// NewWire dials the relay named by cfg and returns the wired app. Callers
// are responsible for closing Wire.Transport once the process exits.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	transport, err := client.DialRelay(ctx, cfg.Addr(), cfg.Insecure)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	return &Wire{Config: cfg, Transport: transport}, nil
}
