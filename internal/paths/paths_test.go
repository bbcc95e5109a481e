package paths

import (
	"path/filepath"
	"testing"
)

func TestConfigRoot_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/rr-test")

	if got := ConfigRoot(); got != "/tmp/rr-test" {
		t.Errorf("ConfigRoot() = %q, want %q", got, "/tmp/rr-test")
	}
}

func TestLayerFileNaming(t *testing.T) {
	t.Setenv(EnvConfigDir, "/cfg")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"global", GlobalConfigFile(), filepath.Join("/cfg", "config.toml")},
		{"repo", RepoConfigFile("offsite"), filepath.Join("/cfg", "repos", "offsite.toml")},
		{"set", SetConfigFile("home"), filepath.Join("/cfg", "sets", "home.toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
