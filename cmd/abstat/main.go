package main

import (
	"os"

	"github.com/abstat/abstat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
