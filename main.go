package main

import (
	"os"

	"github.com/cx-miguel-neiva/cwv-audit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
