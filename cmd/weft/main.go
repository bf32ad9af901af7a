package main

import (
	"os"

	// Import packages to ensure their init() functions are called for registration
	_ "github.com/weft-dev/weft/pkg/injection/points"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
