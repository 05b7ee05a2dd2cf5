package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from .env/.env.local files. It stops at
// the first file that loads; existing process environment is not overwritten.
// A missing file is not an error.
func LoadEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment variables", "file", path)
			return
		}
	}
}
