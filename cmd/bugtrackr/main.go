package main

import (
	"os"

	"github.com/La-Phoenix/bugtrackr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
