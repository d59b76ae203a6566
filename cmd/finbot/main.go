package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Rajiv714/FinBot/internal/adapters/driving/cli"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
