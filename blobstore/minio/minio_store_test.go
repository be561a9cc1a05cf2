package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	ctx := context.Background()

	store, err := Dial(ctx, "localhost:9000", "minioadmin", "minioadmin", "test-kmbench", "test-prefix/", false)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte(" 1.250000s wall, 1.200000s user + 0.000000s system = 1.200000s CPU (96.0%)\n")
	require.NoError(t, store.Put(ctx, "omp_clara_2.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "omp_clara_2.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "omp_")
	require.NoError(t, err)
	assert.Contains(t, names, "omp_clara_2.txt")

	require.NoError(t, store.Delete(ctx, "omp_clara_2.txt"))
	_, err = store.Open(ctx, "omp_clara_2.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
