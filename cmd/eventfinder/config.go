package main

import (
	"github.com/joho/godotenv"

	"eventfinder/shared/go/config"
)

// loadConfig reads config/local.env and .env when present, then the process
// environment. Variables already set in the environment win.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load("config/local.env")
	_ = godotenv.Load()

	return config.Load()
}
