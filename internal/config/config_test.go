package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/paths"
)

// writeLayer creates a config file under root at relPath.
func writeLayer(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestResolve_LayerPrecedence(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, root)

	writeLayer(t, root, "config.toml", `
tag = "global-tag"
du-report = false
`)
	writeLayer(t, root, "repos/offsite.toml", `
repository = "sftp:backup@host:/srv/restic"
password-file = "/etc/restic/offsite.pw"
du-report = true
`)
	writeLayer(t, root, "sets/home.toml", `
tag = "home"
include-paths = ["/home/user"]
exclude-patterns = ["*.cache", "node_modules"]
keep-policy = ["--keep-daily 7", "--keep-weekly 4"]
`)

	cfg, err := Resolve("offsite", "home")
	require.NoError(t, err)

	// Set layer overrides the global tag; repository values survive.
	assert.Equal(t, "home", cfg.Tag)
	assert.Equal(t, "sftp:backup@host:/srv/restic", cfg.Repository)
	assert.Equal(t, "/etc/restic/offsite.pw", cfg.PasswordFile)
	assert.True(t, cfg.DuReport)
	assert.Equal(t, []string{"/home/user"}, cfg.IncludePaths)
	assert.Equal(t, []string{"*.cache", "node_modules"}, cfg.ExcludePatterns)
	assert.Equal(t, []string{"--keep-daily 7", "--keep-weekly 4"}, cfg.KeepPolicy)
}

func TestResolve_EarlierLayerRetainedWhenNotRedefined(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, root)

	writeLayer(t, root, "repos/local.toml", `
repository = "/mnt/backup"
password-file = "/etc/restic/local.pw"
`)
	writeLayer(t, root, "sets/etc.toml", `
include-paths = ["/etc"]
`)

	cfg, err := Resolve("local", "etc")
	require.NoError(t, err)

	assert.Equal(t, "/mnt/backup", cfg.Repository)
	assert.Equal(t, []string{"/etc"}, cfg.IncludePaths)
}

func TestResolve_MissingGlobalIsSilentlySkipped(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, root)

	writeLayer(t, root, "repos/r.toml", `
repository = "/mnt/r"
password-file = "/etc/r.pw"
`)

	cfg, err := Resolve("r", "")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/r", cfg.Repository)
}

func TestResolve_MissingNamedLayerIsFatal(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, root)

	_, err := Resolve("nonexistent", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, runerrors.ErrConfigLoad))
	// The failing source is named in the message.
	assert.Contains(t, err.Error(), "nonexistent.toml")
}

func TestResolve_MissingSetLayerIsFatal(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, root)

	writeLayer(t, root, "repos/r.toml", `
repository = "/mnt/r"
password-file = "/etc/r.pw"
`)

	_, err := Resolve("r", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, runerrors.ErrConfigLoad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "complete",
			cfg:     Config{Repository: "/mnt/r", PasswordFile: "/etc/r.pw"},
			wantErr: false,
		},
		{
			name:    "missing repository",
			cfg:     Config{PasswordFile: "/etc/r.pw"},
			wantErr: true,
		},
		{
			name:    "missing password file",
			cfg:     Config{Repository: "/mnt/r"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, runerrors.ErrConfigLoad))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDump_RoundTrips(t *testing.T) {
	cfg := Config{
		Repository:   "/mnt/r",
		PasswordFile: "/etc/r.pw",
		Tag:          "nightly",
	}

	out := cfg.Dump()
	assert.Contains(t, out, `repository = '/mnt/r'`)
	assert.Contains(t, out, `tag = 'nightly'`)
}
