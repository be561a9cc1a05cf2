package kmbench

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/dataset"
	"github.com/hupe1980/kmbench/internal/fs"
	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/results"
	"github.com/hupe1980/kmbench/testutil"
)

func seeded(cfg dataset.Config, seed uint64) dataset.Config {
	cfg.Seed = &seed
	return cfg
}

func TestHarness_GenerateAndLoad(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	store := blobstore.NewMemoryStore()
	h := New(WithMetricsCollector(metrics), WithStore(store))

	cfg := seeded(dataset.Config{
		NumPoints:   100,
		NumFeatures: 2,
		NumClusters: 3,
		Spread:      1,
		Box:         dataset.Box{Min: -10, Max: 10},
	}, 1)

	dir := t.TempDir()
	paths, err := h.GenerateDataset(ctx, cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_100_2.txt"), paths.Points)

	info, err := os.Stat(paths.Points)
	require.NoError(t, err)
	assert.Equal(t, int64(100*2*8), info.Size())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"data_labels_100_2.txt", "test_100_2.txt"}, names)

	dec, err := h.LoadPoints(ctx, paths.Points, 100, 2)
	require.NoError(t, err)
	assert.Len(t, dec.Points, 100)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.DatasetCount)
	assert.Equal(t, int64(100), stats.DatasetPoints)
	assert.Equal(t, int64(1), stats.DecodeCount)
	assert.Zero(t, stats.DecodeErrors)
}

func TestHarness_GenerateDataset_Failure(t *testing.T) {
	ffs := fs.NewFaultyFS(fs.Default)
	ffs.AddRule("test_", fs.Fault{FailOnOpen: true, FailAfterBytes: -1})
	metrics := &BasicMetricsCollector{}
	h := New(WithFileSystem(ffs), WithMetricsCollector(metrics))

	cfg := seeded(dataset.DefaultConfig(), 3)
	_, err := h.GenerateDataset(context.Background(), cfg, t.TempDir())
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Equal(t, int64(1), metrics.GetStats().DatasetErrors)
}

func TestHarness_LoadPoints_Malformed(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "test_3_2.txt", make([]byte, 20))
	h := New()

	_, err := h.LoadPoints(context.Background(), path, 3, 2)

	var mre *MalformedRecordError
	assert.ErrorAs(t, err, &mre)
}

func TestHarness_LoadPoints_UsesFileSystem(t *testing.T) {
	ctx := context.Background()
	cfg := seeded(dataset.Config{
		NumPoints:   10,
		NumFeatures: 2,
		NumClusters: 2,
		Spread:      1,
		Box:         dataset.Box{Min: -1, Max: 1},
	}, 5)
	paths, err := New().GenerateDataset(ctx, cfg, t.TempDir())
	require.NoError(t, err)

	ffs := fs.NewFaultyFS(fs.Default)
	ffs.AddRule("test_10_2", fs.Fault{FailOnRead: true, FailAfterBytes: -1})
	metrics := &BasicMetricsCollector{}
	h := New(WithFileSystem(ffs), WithMetricsCollector(metrics))

	_, err = h.LoadPoints(ctx, paths.Points, 10, 2)
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Equal(t, int64(1), metrics.GetStats().DecodeErrors)
}

func TestHarness_WriteScripts(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	env := jobscript.DefaultEnvironment()
	env.BinDir = "/opt/kmediods"
	h := New(WithMetricsCollector(metrics), WithEnvironment(env))

	dir := t.TempDir()
	sweep := jobscript.Sweep{Resources: jobscript.DefaultResources(), Serial: true, Threads: []int{2}}
	paths, err := h.WriteScripts(context.Background(), dir, sweep)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "/opt/kmediods/kmediods_omp_clara > omp_clara_2.txt\n")
	assert.Equal(t, int64(2), metrics.GetStats().ScriptCount)
}

func TestHarness_WriteScripts_ConfigError(t *testing.T) {
	h := New()
	sweep := jobscript.Sweep{Resources: jobscript.DefaultResources(), Threads: []int{0}}

	_, err := h.WriteScripts(context.Background(), t.TempDir(), sweep)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestHarness_ScanLogsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteLog(t, dir, "serial_clara.txt", 10)
	testutil.WriteLog(t, dir, "omp_clara_2.txt", 6)
	testutil.WriteLog(t, dir, "omp_clara_4.txt", 4)
	testutil.WriteFile(t, dir, "omp_clara_8.txt", []byte("broken wall\n"))

	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := &BasicMetricsCollector{}
	h := New(WithLogger(logger), WithMetricsCollector(metrics))

	report, err := h.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Diagnostics, 1)

	assert.Contains(t, buf.String(), "skipped file")
	assert.Contains(t, buf.String(), "omp_clara_8.txt")

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.ScanFiles)
	assert.Equal(t, int64(1), stats.ScanSkipped)
}

func TestHarness_ScanStore(t *testing.T) {
	ctx := context.Background()

	_, err := New().ScanStore(ctx, "")
	assert.ErrorIs(t, err, ErrNoStore)

	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "logs/hybrid_clara_2.txt", []byte(testutil.TimingLog(3, 5))))

	report, err := New(WithStore(store)).ScanStore(ctx, "logs/")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
}

func TestHarness_Summarize(t *testing.T) {
	series := results.Series{
		{Mode: jobscript.ModeSerial, Method: jobscript.MethodReg, Scale: 1}:         {50},
		{Mode: jobscript.ModeSerial, Method: jobscript.MethodClara, Scale: 1}:       {10},
		{Mode: jobscript.ModeSharedMemory, Method: jobscript.MethodClara, Scale: 2}: {6},
		{Mode: jobscript.ModeSharedMemory, Method: jobscript.MethodClara, Scale: 4}: {4},
		{Mode: jobscript.ModeSharedMemory, Method: jobscript.MethodClara, Scale: 8}: {5},
		{Mode: jobscript.ModeSharedMemory, Method: jobscript.MethodReg, Scale: 2}:   {30},
	}

	report, err := New().Summarize(context.Background(), series)
	require.NoError(t, err)

	assert.Len(t, report.Summaries, 4)
	assert.InDelta(t, 5.0, report.MethodSpeedup, 1e-12)
	require.Len(t, report.Speedups, 2)

	for _, sp := range report.Speedups {
		if sp.Method == jobscript.MethodClara {
			assert.InDelta(t, 2.5, sp.Ratio, 1e-12)
			assert.Equal(t, 4, sp.Scale)
		}
	}
}

func TestHarness_Summarize_Empty(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	_, err := New(WithMetricsCollector(metrics)).Summarize(context.Background(), results.Series{})

	var ide *InsufficientDataError
	assert.ErrorAs(t, err, &ide)
	assert.Equal(t, int64(1), metrics.GetStats().QueryErrors)
}

func TestOptions_NilFallbacks(t *testing.T) {
	h := New(WithLogger(nil), WithMetricsCollector(nil), WithFileSystem(nil), nil)

	assert.NotNil(t, h.Logger())
	assert.Nil(t, h.Store())
	assert.IsType(t, NoopMetricsCollector{}, h.opts.metricsCollector)
}

func TestOptions_UploadLimit(t *testing.T) {
	h := New(WithStore(blobstore.NewMemoryStore()), WithUploadLimit(1<<20))
	assert.IsType(t, &blobstore.ThrottledStore{}, h.Store())

	h = New(WithUploadLimit(1 << 20))
	assert.Nil(t, h.Store())
}
