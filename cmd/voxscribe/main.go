package main

import (
	"fmt"
	"os"

	"voxscribe/cmd/voxscribe/cmd"
	"voxscribe/internal/config"
)

func main() {
	// A missing .env is fine; a malformed one is reported and ignored.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
