package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; every file that exists is loaded.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env/.env.local into the process environment.
// Existing process environment variables are never overwritten.
func LoadEnvFiles() error {
	for _, name := range envFiles {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		slog.Debug("Loaded environment file", "file", name)
	}
	return nil
}

// Expand resolves ${VAR} references and trims surrounding whitespace.
// Secrets stay unexpanded in stored snapshots and are resolved only at use.
func Expand(raw string) string {
	return strings.TrimSpace(os.ExpandEnv(raw))
}
