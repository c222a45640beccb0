package main

import (
	"os"

	"github.com/soundprediction/bubbles/cmd/bubbles"
)

func main() {
	if err := bubbles.Execute(); err != nil {
		os.Exit(1)
	}
}
