package main

import (
	"os"

	"github.com/mmc-gaming/clanhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
