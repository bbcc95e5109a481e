package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the application name used for config directory naming.
const AppName = "restic-runner"

// EnvConfigDir overrides the configuration root when set.
const EnvConfigDir = "RESTIC_RUNNER_CONFIG_DIR"

// ConfigRoot returns the directory holding all configuration layers.
func ConfigRoot() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// GlobalConfigFile returns the path of the optional global layer.
func GlobalConfigFile() string {
	return filepath.Join(ConfigRoot(), "config.toml")
}

// RepoConfigFile returns the path of the repository layer for name.
func RepoConfigFile(name string) string {
	return filepath.Join(ConfigRoot(), "repos", name+".toml")
}

// SetConfigFile returns the path of the backup-set layer for name.
func SetConfigFile(name string) string {
	return filepath.Join(ConfigRoot(), "sets", name+".toml")
}
