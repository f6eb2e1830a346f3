package config

import (
	"os"
	"path/filepath"
	"runtime"
)

func Dir() string {
	if override := os.Getenv("SPELUNK_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".spelunk"
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "spelunk")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "spelunk")
	default:
		return filepath.Join(home, ".config", "spelunk")
	}
}

func FilePath() string {
	return filepath.Join(Dir(), "config.toml")
}

// SavedSearchDir returns the folder where saved searches are stored.
func SavedSearchDir() string {
	return filepath.Join(Dir(), "saved_searches")
}

func LogPath() string {
	return filepath.Join(Dir(), "spelunk.log")
}
