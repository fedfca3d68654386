package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"rchat/internal/relay"
)

var (
	host      string
	port      int
	enableLog bool
	certPath  string
	keyPath   string
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 6666
	minPort     = 0
	maxPort     = 65535
)

func main() {
	pflag.StringVar(&host, "host", defaultHost, "address to listen on")
	pflag.IntVarP(&port, "port", "p", defaultPort, "port to listen on")
	pflag.BoolVar(&enableLog, "log", false, "enable structured access logging")
	pflag.StringVar(&certPath, "cert", "server.crt", "TLS certificate path")
	pflag.StringVar(&keyPath, "key", "server.key", "TLS private key path")
	pflag.Parse()

	if port <= minPort || port > maxPort {
		port = defaultPort
	}

	level := slog.LevelWarn
	if enableLog {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(log.Writer(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	tlsConfig, err := loadTLSConfig(certPath, keyPath)
	if err != nil {
		logger.Error("TLS configuration failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := tls.Listen("tcp", addr, tlsConfig)
	if err != nil {
		logger.Error("listen failed", "addr", addr, "error", err)
		os.Exit(1)
	}

	srv := relay.NewServer(relay.NewRegistry(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("relay listening", "addr", addr)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Error("relay failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := ln.Close(); err != nil {
			logger.Error("listener close failed", "error", err)
		}
		<-errCh
	}
}

// loadTLSConfig reads the relay's certificate and private key from disk. No
// identity other than the relay's own transport cert is ever loaded: the
// relay has no chat-content key to protect, only the connection itself.
func loadTLSConfig(cert, key string) (*tls.Config, error) {
	if _, err := os.Stat(cert); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("missing TLS certificate %q; generate one with: "+
			"openssl req -x509 -newkey rsa:4096 -nodes -keyout %s -out %s -days 365 -subj '/CN=localhost'", cert, key, cert)
	}
	pair, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("load TLS key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
