package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"restic-runner/internal/logging"
)

func TestRun_RemovesRegisteredPaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exclude.txt")
	if err := os.WriteFile(file, []byte("*.cache\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	scratch := filepath.Join(dir, "restore-scratch")
	if err := os.MkdirAll(filepath.Join(scratch, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(logging.ForTest(t))
	r.Register(file)
	r.Register(scratch)
	r.Run()

	for _, p := range []string{file, scratch} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", p)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tmp")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(logging.ForTest(t))
	r.Register(file)

	r.Run()
	// Second run must not panic or attempt removal again.
	r.Run()

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file should have been removed")
	}
}

func TestRun_LateRegistrationIgnoredAfterRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "late")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(logging.ForTest(t))
	r.Run()
	r.Register(file)
	r.Run()

	if _, err := os.Stat(file); err != nil {
		t.Error("path registered after Run should be left alone")
	}
}
