package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from the given .env files (".env" when none are
// named) without overriding variables already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// GetPersonaHome returns the persona home directory
// Priority order:
//  1. PERSONA_HOME environment variable (if set)
//  2. .persona under the current working directory
//
// The directory is created if it doesn't exist.
func GetPersonaHome() (string, error) {
	home := os.Getenv("PERSONA_HOME")
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, DefaultHome)
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create persona home directory: %w", err)
	}
	return home, nil
}
