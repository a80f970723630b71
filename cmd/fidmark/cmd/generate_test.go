package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker42.png")

	out, err := executeCommand(t, "generate", "42", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGenerateCommand_InvalidID(t *testing.T) {
	_, err := executeCommand(t, "generate", "notanumber", "--out",
		filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid marker id")
}

func TestGenerateCommand_OutOfRangeID(t *testing.T) {
	_, err := executeCommand(t, "generate", "4096", "--out",
		filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestGenerateCommand_OutWithMultipleIDs(t *testing.T) {
	_, err := executeCommand(t, "generate", "1", "2", "--out",
		filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single marker id")
}

func TestGenerateCommand_RequiresArgs(t *testing.T) {
	_, err := executeCommand(t, "generate")
	assert.Error(t, err)
}
