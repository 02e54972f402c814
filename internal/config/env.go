package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads KEY=VALUE pairs from the given dotenv files into the
// process environment so they can override configuration values. Missing
// files are skipped. Variables already set in the environment win. It returns
// the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to stat env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
