// Package main is the entry point for the sloc CLI.
package main

import (
	"github.com/huangsam/sloc/cmd"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/iocache"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; SLOC_* variables may come from the shell instead
	_ = godotenv.Load()

	defer iocache.CloseCaching()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Command failed", err)
	}
}
