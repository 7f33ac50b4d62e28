package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName     = ".scribe"
	dataDirEnv     = "SCRIBE_DATA_DIR"
	configFileName = "config.toml"
)

// DataDir returns the base data directory for scribe.
// SCRIBE_DATA_DIR overrides the default ~/.scribe location.
func DataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(dataDirEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the path to the TOML configuration file.
func ConfigPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, configFileName), nil
}

// HandoffPath returns the path to the transcript handoff database.
func HandoffPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "handoff.db"), nil
}

// LogPath returns the default path of the rotating log file.
func LogPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "scribe.log"), nil
}
