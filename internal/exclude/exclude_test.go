package exclude

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restic-runner/internal/cleanup"
	"restic-runner/internal/logging"
)

func TestBuildFile(t *testing.T) {
	reg := cleanup.NewRegistry(logging.ForTest(t))

	path, err := BuildFile([]string{"*.cache", "node_modules", ".git"}, reg)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "*.cache\nnode_modules\n.git\n", string(data))

	// The file is registered for cleanup.
	reg.Run()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestBuildFile_NoPatterns(t *testing.T) {
	reg := cleanup.NewRegistry(logging.ForTest(t))

	path, err := BuildFile(nil, reg)
	require.NoError(t, err)
	assert.Empty(t, path)
}
