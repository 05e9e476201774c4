package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("fake image bytes"), "laptop.PNG")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "/uploads/"))
	require.True(t, strings.HasSuffix(path, ".png"))

	onDisk := filepath.Join(dir, filepath.Base(path))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))

	store.Remove(path)
	_, err = os.Stat(onDisk)
	require.True(t, os.IsNotExist(err))

	// Removing twice or removing a foreign path is a no-op.
	store.Remove(path)
	store.Remove("/etc/passwd")
}
