// Package commands implements the rchat client's cobra command tree. It is
// deliberately thin: the real work lives in internal/client and internal/app,
// this package only parses flags and drives the interactive chat loop.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"rchat/internal/app"
)

var (
	host     string
	port     int
	username string
	insecure bool
	numeric  bool

	appCtx *app.Wire
)

// Execute builds the root command and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "rchat",
		Short: "End-to-end encrypted ephemeral chat client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			cfg := app.Config{
				Host:     host,
				Port:     port,
				Username: username,
				Insecure: insecure,
				Numeric:  numeric,
			}
			var err error
			appCtx, err = app.NewWire(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("connecting to relay: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&host, "host", "127.0.0.1", "relay host")
	root.PersistentFlags().IntVar(&port, "port", 6666, "relay port")
	root.PersistentFlags().StringVarP(&username, "username", "u", "", "your display name for this chat")
	root.PersistentFlags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification (local testing only)")
	root.PersistentFlags().BoolVar(&numeric, "numeric-codes", false, "use 6-digit numeric chat codes instead of strong ones")

	root.AddCommand(chatCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root.SetContext(ctx)

	return root.Execute()
}
