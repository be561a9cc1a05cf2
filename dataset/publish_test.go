package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	ctx := context.Background()
	paths := DefaultPaths(t.TempDir(), 20, 2)
	_, err := Run(fs.Default, seeded(Config{NumPoints: 20, NumFeatures: 2, NumClusters: 2, Spread: 1, Box: Box{Min: -1, Max: 1}}, 5), paths)
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, Publish(ctx, store, fs.Default, paths.Points, paths.Labels))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"test_20_2.txt", "data_labels_20_2.txt"}, names)

	data, err := blobstore.ReadAll(ctx, store, "test_20_2.txt")
	require.NoError(t, err)
	assert.Len(t, data, 20*2*8)
}

func TestPublish_MissingFile(t *testing.T) {
	err := Publish(context.Background(), blobstore.NewMemoryStore(), fs.Default, "does/not/exist.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, blobstore.ErrNotFound))
}
