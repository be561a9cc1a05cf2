package kmbench

import (
	"log/slog"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/internal/fs"
	"github.com/hupe1980/kmbench/jobscript"
)

// FileSystem abstracts the local file operations of the harness.
type FileSystem = fs.FileSystem

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	fs               FileSystem
	store            blobstore.BlobStore
	uploadLimit      int
	env              jobscript.Environment
}

// Option configures a Harness.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmbench.BasicMetricsCollector{}
//	h := kmbench.New(kmbench.WithMetricsCollector(metrics))
//	// ... use h ...
//	stats := metrics.GetStats()
//	fmt.Printf("Scans: %d, skipped files: %d\n", stats.ScanCount, stats.ScanSkipped)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmbench.NewJSONLogger(slog.LevelInfo)
//	h := kmbench.New(kmbench.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithFileSystem replaces the local file system, e.g. with a fault
// injecting one in tests.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithStore configures the blob store datasets are published to and
// remote logs are scanned from.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithUploadLimit caps uploads to the blob store at bytesPerSec.
// Zero disables the limit.
func WithUploadLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.uploadLimit = bytesPerSec
	}
}

// WithEnvironment configures the cluster environment job scripts are
// rendered for. The default is jobscript.DefaultEnvironment().
func WithEnvironment(env jobscript.Environment) Option {
	return func(o *options) {
		o.env = env
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fs:               fs.Default,
		env:              jobscript.DefaultEnvironment(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.store != nil && o.uploadLimit > 0 {
		o.store = blobstore.NewThrottledStore(o.store, o.uploadLimit)
	}
	return o
}
