package main

import (
	"os"

	"github.com/example/brace/cmd/brace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
