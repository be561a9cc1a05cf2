package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/kmbench/codec"
	"github.com/hupe1980/kmbench/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(cfg Config, seed uint64) Config {
	cfg.Seed = &seed
	return cfg
}

func TestGenerate_RoundTripScenario(t *testing.T) {
	cfg := seeded(Config{
		NumPoints:   100,
		NumFeatures: 2,
		NumClusters: 3,
		Spread:      1.0,
		Box:         Box{Min: -10, Max: 10},
	}, 1)
	paths := DefaultPaths(t.TempDir(), 100, 2)

	points, err := Run(fs.Default, cfg, paths)
	require.NoError(t, err)
	require.Len(t, points, 100)

	dec, err := codec.ReadPointsFile(fs.Default, paths.Points, 100, 2)
	require.NoError(t, err)
	require.Len(t, dec.Points, 100)
	assert.Zero(t, dec.DroppedCount())
	for _, p := range dec.Points {
		require.Len(t, p, 2)
		for _, v := range p {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	assert.Equal(t, points, dec.Points)

	labels, err := codec.ReadLabelsFile(fs.Default, paths.Labels)
	require.NoError(t, err)
	require.Len(t, labels, 100)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, int32(0))
		assert.Less(t, l, int32(3))
	}
}

func TestGenerate_Seeded(t *testing.T) {
	cfg := seeded(DefaultConfig(), 42)
	cfg.NumPoints = 500

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := Generate(seeded(cfg, 43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Points, other.Points)
}

func TestGenerate_CentersInsideBox(t *testing.T) {
	cfg := seeded(Config{NumPoints: 10, NumFeatures: 3, NumClusters: 5, Spread: 0, Box: Box{Min: 2, Max: 4}}, 7)

	ds, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, ds.Centers, 5)
	for _, c := range ds.Centers {
		for _, v := range c {
			assert.GreaterOrEqual(t, v, 2.0)
			assert.Less(t, v, 4.0)
		}
	}
	// Zero spread puts every point on its center.
	for i, p := range ds.Points {
		assert.Equal(t, ds.Centers[ds.Labels[i]], p)
	}
}

func TestGenerate_Unseeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumPoints = 50

	ds, err := Generate(cfg)
	require.NoError(t, err)
	assert.Len(t, ds.Points, 50)
	assert.Len(t, ds.Labels, 50)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NoPoints", func(c *Config) { c.NumPoints = 0 }},
		{"NoFeatures", func(c *Config) { c.NumFeatures = -1 }},
		{"NoClusters", func(c *Config) { c.NumClusters = 0 }},
		{"NegativeSpread", func(c *Config) { c.Spread = -1 }},
		{"EmptyBox", func(c *Config) { c.Box = Box{Min: 1, Max: 1} }},
		{"NaNBox", func(c *Config) { c.Box.Max = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestDefaultPaths(t *testing.T) {
	p := DefaultPaths("data", 20000, 2)
	assert.Equal(t, filepath.Join("data", "test_20000_2.txt"), p.Points)
	assert.Equal(t, filepath.Join("data", "data_labels_20000_2.txt"), p.Labels)
}

func TestWrite_Failure(t *testing.T) {
	ds, err := Generate(seeded(Config{NumPoints: 4, NumFeatures: 2, NumClusters: 2, Spread: 1, Box: Box{Min: 0, Max: 1}}, 3))
	require.NoError(t, err)

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("data_labels", fs.Fault{FailOnSync: true, FailAfterBytes: -1})

	err = Write(ffs, ds, DefaultPaths(t.TempDir(), 4, 2))
	require.ErrorIs(t, err, fs.ErrInjected)
	assert.Contains(t, err.Error(), "write labels")
}

func TestResultPathsFor(t *testing.T) {
	p := ResultPathsFor(filepath.Join("data", "test_20000_2.txt"), 3)
	assert.Equal(t, filepath.Join("data", "test_20000_2_clusters_3.txt"), p.Clusters)
	assert.Equal(t, filepath.Join("data", "test_20000_2_clustering_3.txt"), p.Clustering)
	assert.Equal(t, filepath.Join("data", "test_20000_2_stats_3.txt"), p.Stats)
}

func writeResult(t *testing.T, dataPath string, idx int, centers codec.PointSet, assignments codec.LabelSet, stats string) {
	t.Helper()
	paths := ResultPathsFor(dataPath, idx)
	require.NoError(t, codec.WritePointsFile(fs.Default, paths.Clusters, centers))
	require.NoError(t, codec.WriteLabelsFile(fs.Default, paths.Clustering, assignments))
	if stats != "" {
		require.NoError(t, os.WriteFile(paths.Stats, []byte(stats), 0o644))
	}
}

func TestNextResultIndex(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "test_4_2.txt")
	assert.Equal(t, 0, NextResultIndex(fs.Default, dataPath))

	writeResult(t, dataPath, 0, codec.PointSet{{0, 0}}, codec.LabelSet{0, 0, 0, 0}, "")
	writeResult(t, dataPath, 1, codec.PointSet{{0, 0}}, codec.LabelSet{0, 0, 0, 0}, "")
	assert.Equal(t, 2, NextResultIndex(fs.Default, dataPath))
}

func TestLoadResult(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "test_4_2.txt")
	centers := codec.PointSet{{1, 1}, {-1, -1}}

	t.Run("WithStats", func(t *testing.T) {
		writeResult(t, dataPath, 0, centers, codec.LabelSet{0, 1, 1, 0}, "Error: 12.50000000\nTime: 0\nmpi\n")

		res, err := LoadResult(fs.Default, dataPath, 0, 4, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, centers, res.Centers)
		assert.Equal(t, codec.LabelSet{0, 1, 1, 0}, res.Assignments)
		require.NotNil(t, res.Stats)
		assert.Equal(t, Stats{Error: 12.5, Time: 0, Mode: "mpi"}, *res.Stats)
	})

	t.Run("WithoutStats", func(t *testing.T) {
		writeResult(t, dataPath, 1, centers, codec.LabelSet{1, 1, 1, 0}, "")

		res, err := LoadResult(fs.Default, dataPath, 1, 4, 2, 2)
		require.NoError(t, err)
		assert.Nil(t, res.Stats)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		writeResult(t, dataPath, 2, centers, codec.LabelSet{0, 1, 1}, "")

		_, err := LoadResult(fs.Default, dataPath, 2, 4, 2, 2)
		var lme *LengthMismatchError
		require.ErrorAs(t, err, &lme)
		assert.Equal(t, 4, lme.Want)
		assert.Equal(t, 3, lme.Got)
	})

	t.Run("AssignmentOutOfRange", func(t *testing.T) {
		writeResult(t, dataPath, 3, centers, codec.LabelSet{0, 1, 2, 0}, "")

		_, err := LoadResult(fs.Default, dataPath, 3, 4, 2, 2)
		assert.ErrorContains(t, err, "outside [0,2)")
	})

	t.Run("MalformedCenters", func(t *testing.T) {
		writeResult(t, dataPath, 4, codec.PointSet{{1, 1}}, codec.LabelSet{0, 0, 0, 0}, "")

		_, err := LoadResult(fs.Default, dataPath, 4, 4, 2, 2)
		var mre *codec.MalformedRecordError
		assert.ErrorAs(t, err, &mre)
	})

	t.Run("BadStats", func(t *testing.T) {
		writeResult(t, dataPath, 5, centers, codec.LabelSet{0, 0, 0, 0}, "Error: lots\n")

		_, err := LoadResult(fs.Default, dataPath, 5, 4, 2, 2)
		assert.ErrorContains(t, err, "parse error value")
	})
	t.Run("ReadsThroughFileSystem", func(t *testing.T) {
		writeResult(t, dataPath, 6, centers, codec.LabelSet{0, 1, 0, 1}, "")

		ffs := fs.NewFaultyFS(nil)
		ffs.AddRule("_clustering_6", fs.Fault{FailOnRead: true, FailAfterBytes: -1})

		_, err := LoadResult(ffs, dataPath, 6, 4, 2, 2)
		assert.ErrorIs(t, err, fs.ErrInjected)
	})
}
