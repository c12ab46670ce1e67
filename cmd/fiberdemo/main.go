// Command fiberdemo mounts small demo applications into an in-memory host
// and prints how each update reconciles.
package main

import (
	"os"

	"github.com/go-drift/fiber/cmd/fiberdemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
