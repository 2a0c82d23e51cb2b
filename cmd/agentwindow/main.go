package main

import (
	"os"

	"agentwindow/internal/logger"
)

var log = logger.Named("main")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
