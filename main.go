package main

import (
	"os"

	"github.com/aouyang1/signage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
