package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))
	assert.True(t, Exists(lfs, newPath))
	assert.False(t, Exists(lfs, fpath))

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "nested", "data.bin")

	require.NoError(t, WriteFile(nil, name, []byte{1, 2, 3}, 0o644))

	data, err := ReadFile(nil, name)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.False(t, Exists(nil, name+".tmp"))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)

	t.Run("FailAfterBytes", func(t *testing.T) {
		ffs.AddRule("limited", Fault{FailAfterBytes: 4})
		err := WriteFile(ffs, filepath.Join(tmp, "limited.bin"), []byte("too long"), 0o644)
		require.ErrorIs(t, err, ErrInjected)
		assert.False(t, Exists(ffs, filepath.Join(tmp, "limited.bin.tmp")))
	})

	t.Run("FailOnOpen", func(t *testing.T) {
		boom := errors.New("boom")
		ffs.AddRule("closed", Fault{FailOnOpen: true, Err: boom, FailAfterBytes: -1})
		_, err := ReadFile(ffs, filepath.Join(tmp, "closed.txt"))
		require.ErrorIs(t, err, boom)
	})

	t.Run("FailOnRead", func(t *testing.T) {
		name := filepath.Join(tmp, "unreadable.txt")
		require.NoError(t, WriteFile(nil, name, []byte("content"), 0o644))
		ffs.AddRule("unreadable", Fault{FailOnRead: true, FailAfterBytes: -1})
		_, err := ReadFile(ffs, name)
		require.ErrorIs(t, err, ErrInjected)
	})

	t.Run("FailOnRename", func(t *testing.T) {
		ffs.AddRule("pinned", Fault{FailOnRename: true, FailAfterBytes: -1})
		err := WriteFile(ffs, filepath.Join(tmp, "pinned.sh"), []byte("#!/bin/bash\n"), 0o755)
		require.ErrorIs(t, err, ErrInjected)
	})

	t.Run("PassThrough", func(t *testing.T) {
		name := filepath.Join(tmp, "plain.txt")
		require.NoError(t, WriteFile(ffs, name, []byte("ok"), 0o644))
		data, err := ReadFile(ffs, name)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(data))
	})
}
