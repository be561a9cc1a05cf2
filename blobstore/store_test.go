package blobstore

import (
	"context"
	"io"
	"testing"
	"time"

	kfs "github.com/hupe1980/kmbench/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "logs/omp_clara_2.txt", []byte("hello world")))
	require.NoError(t, store.Put(ctx, "logs/serial_reg.txt", []byte("serial")))
	require.NoError(t, store.Put(ctx, "test_100_2.txt", []byte{}))

	b, err := store.Open(ctx, "logs/omp_clara_2.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.Size())

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	n, err = b.ReadAt(ctx, make([]byte, 10), 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)
	require.NoError(t, b.Close())

	data, err := ReadAll(ctx, store, "test_100_2.txt")
	require.NoError(t, err)
	assert.Empty(t, data)

	names, err := store.List(ctx, "logs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/omp_clara_2.txt", "logs/serial_reg.txt"}, names)

	require.NoError(t, store.Put(ctx, "logs/serial_reg.txt", []byte("replaced")))
	data, err = ReadAll(ctx, store, "logs/serial_reg.txt")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, store.Delete(ctx, "logs/serial_reg.txt"))
	require.NoError(t, store.Delete(ctx, "logs/serial_reg.txt"))
	_, err = store.Open(ctx, "logs/serial_reg.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, store, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore_FailedPutKeepsOldContent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	require.NoError(t, NewLocalStore(root).Put(ctx, "data.bin", []byte("old")))

	ffs := kfs.NewFaultyFS(kfs.Default)
	ffs.AddRule("data.bin", kfs.Fault{FailOnSync: true, FailAfterBytes: -1})
	store := NewLocalStoreFS(root, ffs)

	err := store.Put(ctx, "data.bin", []byte("new"))
	assert.ErrorIs(t, err, kfs.ErrInjected)

	got, err := ReadAll(ctx, store, "data.bin")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"data.bin"}, names)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewLocalStore(t.TempDir())
	assert.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
	_, err := store.Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThrottledStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	t.Run("Unlimited", func(t *testing.T) {
		store := NewThrottledStore(inner, 0)
		require.NoError(t, store.Put(ctx, "a", make([]byte, 1<<20)))
	})

	t.Run("Limited", func(t *testing.T) {
		store := NewThrottledStore(inner, 1000)

		start := time.Now()
		require.NoError(t, store.Put(ctx, "b", make([]byte, 1500)))
		assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)

		got, err := ReadAll(ctx, store, "b")
		require.NoError(t, err)
		assert.Len(t, got, 1500)
	})

	t.Run("Canceled", func(t *testing.T) {
		store := NewThrottledStore(inner, 10)
		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		assert.Error(t, store.Put(cctx, "c", make([]byte, 100)))
		_, err := inner.Open(ctx, "c")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
