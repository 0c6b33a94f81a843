package main

import (
	"os"

	"github.com/opsrate/fieldbill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
