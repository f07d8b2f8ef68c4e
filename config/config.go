package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the console client.
// The API base URL is configured in exactly one place; there is no
// built-in fallback host.
type Config struct {
	APIBaseURL     string        // Base URL of the CanineRacks API, e.g. http://localhost:8000/api
	RequestTimeout time.Duration // Per-request deadline
	SessionFile    string        // Path of the durable session file
	Env            string        // development/production, drives logger setup
}

// Load reads configuration from the environment, preferring a local .env
// file when present, and validates required fields.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8000/api"),
		SessionFile: os.Getenv("SESSION_FILE"),
		Env:         getEnv("APP_ENV", "development"),
	}

	timeoutSec := getEnv("API_TIMEOUT_SECONDS", "10")
	sec, err := strconv.Atoi(timeoutSec)
	if err != nil || sec <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT_SECONDS must be a positive number, got %q", timeoutSec)
	}
	cfg.RequestTimeout = time.Duration(sec) * time.Second

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "canineracks", "session.json")
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
