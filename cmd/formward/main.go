package main

import (
	"os"

	"github.com/formward/formward/cmd/formward/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
