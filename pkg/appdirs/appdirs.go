package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "imgresize"

// Dirs holds the per-user locations the program reads and writes.
// Nothing here is needed to process images; a missing directory only
// disables the config file or the log file.
type Dirs struct {
	ConfigPath string
	StateDir   string
	LogPath    string
}

// New resolves XDG-compliant paths, falling back to APPDATA on Windows
func New() (*Dirs, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	stateDir, err := getStateDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine state directory: %w", err)
	}

	return &Dirs{
		ConfigPath: configPath,
		StateDir:   stateDir,
		LogPath:    filepath.Join(stateDir, appName+".log"),
	}, nil
}

// EnsureStateDir creates the state directory if it doesn't exist
func (d *Dirs) EnsureStateDir() error {
	if err := os.MkdirAll(d.StateDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", d.StateDir, err)
	}
	return nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName, "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

func getStateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "state", appName), nil
}
