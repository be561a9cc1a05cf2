package kmbench

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/codec"
	"github.com/hupe1980/kmbench/dataset"
	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/results"
)

// Harness ties the components together and adds logging and metrics.
// It is safe for concurrent use.
type Harness struct {
	opts options
}

// New creates a Harness.
func New(optFns ...Option) *Harness {
	return &Harness{opts: applyOptions(optFns)}
}

// Logger returns the configured logger.
func (h *Harness) Logger() *Logger { return h.opts.logger }

// Store returns the configured blob store, or nil.
func (h *Harness) Store() blobstore.BlobStore { return h.opts.store }

// GenerateDataset generates a dataset from cfg and writes it into dir under
// the default file names. With a blob store configured, both files are
// published to it as well.
func (h *Harness) GenerateDataset(ctx context.Context, cfg dataset.Config, dir string) (dataset.Paths, error) {
	start := time.Now()
	paths := dataset.DefaultPaths(dir, cfg.NumPoints, cfg.NumFeatures)

	err := h.generate(ctx, cfg, paths)
	h.opts.metricsCollector.RecordDataset(cfg.NumPoints, time.Since(start), err)
	h.opts.logger.LogDataset(ctx, paths.Points, cfg.NumPoints, cfg.NumFeatures, err)
	if err != nil {
		return dataset.Paths{}, err
	}
	return paths, nil
}

func (h *Harness) generate(ctx context.Context, cfg dataset.Config, paths dataset.Paths) error {
	if _, err := dataset.Run(h.opts.fs, cfg, paths); err != nil {
		return err
	}
	if h.opts.store == nil {
		return nil
	}
	return dataset.Publish(ctx, h.opts.store, h.opts.fs, paths.Points, paths.Labels)
}

// LoadPoints decodes n points of f features from path. Rows with
// non-finite coordinates are dropped and logged.
func (h *Harness) LoadPoints(ctx context.Context, path string, n, f int) (codec.Decoded, error) {
	start := time.Now()
	d, err := codec.ReadPointsFile(h.opts.fs, path, n, f)
	h.opts.metricsCollector.RecordDecode(len(d.Points), d.DroppedCount(), time.Since(start), err)
	h.opts.logger.LogDecode(ctx, path, len(d.Points), d.DroppedCount(), err)
	return d, err
}

// WriteScripts renders every job script of sweep into dir.
func (h *Harness) WriteScripts(ctx context.Context, dir string, sweep jobscript.Sweep) ([]string, error) {
	start := time.Now()
	paths, err := jobscript.WriteSweep(ctx, h.opts.fs, dir, sweep, h.opts.env)
	h.opts.metricsCollector.RecordScripts(len(paths), time.Since(start), err)
	h.opts.logger.LogScripts(ctx, dir, len(paths), err)
	return paths, err
}

// Scan collects the timing samples of every log in dir. Skipped files are
// logged at warn level and kept in the report.
func (h *Harness) Scan(ctx context.Context, dir string) (*results.ScanReport, error) {
	start := time.Now()
	report, err := results.Scan(h.opts.fs, dir)
	h.observeScan(ctx, dir, report, time.Since(start), err)
	return report, err
}

// ScanStore collects the timing samples of every blob under prefix in the
// configured store.
func (h *Harness) ScanStore(ctx context.Context, prefix string) (*results.ScanReport, error) {
	if h.opts.store == nil {
		return nil, ErrNoStore
	}
	start := time.Now()
	report, err := results.ScanStore(ctx, h.opts.store, prefix)
	h.observeScan(ctx, prefix, report, time.Since(start), err)
	return report, err
}

func (h *Harness) observeScan(ctx context.Context, source string, report *results.ScanReport, d time.Duration, err error) {
	if err != nil {
		h.opts.metricsCollector.RecordScan(0, 0, d, err)
		h.opts.logger.LogScan(ctx, source, 0, 0, err)
		return
	}
	for _, diag := range report.Diagnostics {
		h.opts.logger.LogDiagnostic(ctx, diag)
	}
	for _, empty := range report.Empty {
		h.opts.logger.WithPath(empty).DebugContext(ctx, "log holds no timing lines")
	}
	h.opts.metricsCollector.RecordScan(report.Files, len(report.Diagnostics), d, nil)
	h.opts.logger.LogScan(ctx, source, report.Files, len(report.Diagnostics), nil)
}

// Report summarizes a series.
type Report struct {
	Summaries []results.Summary
	// Speedups holds one entry per parallel mode and method with a serial
	// baseline.
	Speedups []results.SpeedupResult
	// MethodSpeedup is serial PAM time over serial CLARA time, or 0 when
	// either is missing.
	MethodSpeedup float64
}

// Summarize aggregates every mode and method of series and computes the
// speedups against the serial baseline.
func (h *Harness) Summarize(ctx context.Context, series results.Series) (Report, error) {
	start := time.Now()
	report, err := summarize(series)
	h.opts.metricsCollector.RecordQuery(len(report.Summaries), time.Since(start), err)
	h.opts.logger.LogQuery(ctx, len(report.Summaries), err)
	return report, err
}

func summarize(series results.Series) (Report, error) {
	var r Report
	r.Summaries = results.Summaries(series)
	if len(r.Summaries) == 0 {
		return Report{}, &results.InsufficientDataError{}
	}

	for _, s := range r.Summaries {
		if s.Mode == jobscript.ModeSerial {
			continue
		}
		sp, err := results.Speedup(series, s.Mode, s.Method)
		if err != nil {
			var ide *results.InsufficientDataError
			if errors.As(err, &ide) {
				continue
			}
			return Report{}, err
		}
		r.Speedups = append(r.Speedups, sp)
	}

	if ms, err := results.MethodSpeedup(series); err == nil {
		r.MethodSpeedup = ms
	}
	return r, nil
}
