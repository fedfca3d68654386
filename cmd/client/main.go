// The entrypoint for the rchat client CLI.
package main

import (
	"log"

	"rchat/cmd/client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
