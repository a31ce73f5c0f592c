package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Remove(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "services"), 0o755))
	file := filepath.Join(root, "services", "old.png")
	require.NoError(t, os.WriteFile(file, []byte("img"), 0o644))

	store := NewLocal(root)

	require.NoError(t, store.Remove(context.Background(), "services/old.png"))
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	require.NoError(t, store.Remove(context.Background(), "services/old.png"))
}

func TestLocal_RemoveStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "media")
	require.NoError(t, os.MkdirAll(root, 0o755))
	outside := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store := NewLocal(root)
	require.NoError(t, store.Remove(context.Background(), "../secret.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside root must survive")
}

func TestLocal_DisabledWithoutRoot(t *testing.T) {
	assert.NoError(t, NewLocal("").Remove(context.Background(), "whatever.png"))
}
