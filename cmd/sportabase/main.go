package main

import (
	"os"

	"github.com/deusflow/sportabase/internal/logger"
	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()
	logger.Init()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
