package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ConfigInt64 reads an integer setting, falling back when unset or malformed.
func ConfigInt64(key string, fallback int64) int64 {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("⚠️ Invalid value for %s: %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

// ConfigFloat reads a float setting, falling back when unset or malformed.
func ConfigFloat(key string, fallback float64) float64 {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("⚠️ Invalid value for %s: %q, using default %v", key, raw, fallback)
		return fallback
	}
	return v
}
