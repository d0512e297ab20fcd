package main

import (
	"os"

	"github.com/lakeroad/sparktel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
