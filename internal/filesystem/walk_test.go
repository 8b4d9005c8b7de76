package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "build", "Message", "abis", "Message", "set_message.abi"))
	touch(t, filepath.Join(root, "build", "Message", "abis", "mint.abi"))
	touch(t, filepath.Join(root, "build", "Message", "bytecode_modules", "Message.mv"))
	touch(t, filepath.Join(root, "generated", "diemStdlib", "old.abi"))
	touch(t, filepath.Join(root, ".hidden", "h.abi"))

	files, err := FindFiles(root, ".abi")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "build", "Message", "abis", "Message", "set_message.abi"),
		filepath.Join(root, "build", "Message", "abis", "mint.abi"),
	}, files)
}

func TestFindFiles_MissingRoot(t *testing.T) {
	files, err := FindFiles(filepath.Join(t.TempDir(), "nope"), ".abi")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWalk_SkipsHiddenFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.mv"))
	touch(t, filepath.Join(root, ".DS_Store"))
	touch(t, filepath.Join(root, "node_modules", "dep.mv"))

	var seen []string
	err := Walk(root, func(path string) error {
		seen = append(seen, filepath.Base(path))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.mv"}, seen)
}

func TestSkipDir(t *testing.T) {
	assert.True(t, SkipDir(".git"))
	assert.True(t, SkipDir("generated"))
	assert.False(t, SkipDir("abis"))
}

func TestListFiles_TopLevelOnly(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Message.mv"))
	touch(t, filepath.Join(root, "Counter.mv"))
	touch(t, filepath.Join(root, "dependencies", "MoveStdlib", "Vector.mv"))
	touch(t, filepath.Join(root, "notes.txt"))

	files, err := ListFiles(root, ".mv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Counter.mv"),
		filepath.Join(root, "Message.mv"),
	}, files)

	files, err = ListFiles(filepath.Join(root, "nope"), ".mv")
	require.NoError(t, err)
	assert.Empty(t, files)
}
