// Package paths resolves the on-disk locations of restic-runner's layered
// configuration files.
//
// The configuration root follows the XDG Base Directory Specification via
// github.com/adrg/xdg and defaults to <XDG_CONFIG_HOME>/restic-runner.
// Set RESTIC_RUNNER_CONFIG_DIR to override it, which tests rely on.
//
// Within the root, layers are discovered by fixed naming convention:
//
//	config.toml        global runner defaults (optional)
//	repos/<name>.toml  per-repository settings
//	sets/<name>.toml   per-backup-set settings
package paths
