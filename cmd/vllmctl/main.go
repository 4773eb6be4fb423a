package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
