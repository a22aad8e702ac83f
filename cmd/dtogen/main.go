package main

import (
	"os"

	"github.com/solatis/dtogen/cmd/dtogen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
