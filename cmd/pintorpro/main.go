// Package main is the entry point for the pintorpro CLI.
package main

import (
	"os"

	"github.com/Simplici0/pintorpro/cmd/pintorpro/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
