package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "blob")
	require.NoError(t, SafeWriteFile(p, []byte("one")))
	require.NoError(t, SafeWriteFile(p, []byte("two")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "two", string(b))

	_, err = os.Stat(p + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file should not linger")
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/.resumekit/data")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".resumekit", "data"), got)

	got, err = ExpandHome("/var/tmp/../data")
	require.NoError(t, err)
	require.Equal(t, "/var/data", got)
}

func TestBaseName(t *testing.T) {
	require.Equal(t, "jane_doe", BaseName("/tmp/cv/jane_doe.md"))
	require.Equal(t, "resume", BaseName("resume"))
}
