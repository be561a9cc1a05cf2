package kmbench

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus adapter.
type MetricsCollector interface {
	// RecordDataset is called after each dataset generation.
	// points is the number of generated points.
	RecordDataset(points int, duration time.Duration, err error)

	// RecordDecode is called after each point-file decode.
	// rows is the number of rows returned, dropped the number of
	// non-finite rows filtered out.
	RecordDecode(rows, dropped int, duration time.Duration, err error)

	// RecordScripts is called after each job-script sweep.
	RecordScripts(count int, duration time.Duration, err error)

	// RecordScan is called after each results scan. files is the number
	// of logs that contributed samples, skipped the number of diagnostics.
	RecordScan(files, skipped int, duration time.Duration, err error)

	// RecordQuery is called after each aggregation over a series.
	RecordQuery(summaries int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDataset(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordDecode(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordScripts(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DatasetCount   atomic.Int64
	DatasetErrors  atomic.Int64
	DatasetPoints  atomic.Int64
	DecodeCount    atomic.Int64
	DecodeErrors   atomic.Int64
	DecodeDropped  atomic.Int64
	ScriptCount    atomic.Int64
	ScriptErrors   atomic.Int64
	ScanCount      atomic.Int64
	ScanErrors     atomic.Int64
	ScanFiles      atomic.Int64
	ScanSkipped    atomic.Int64
	ScanTotalNanos atomic.Int64
	QueryCount     atomic.Int64
	QueryErrors    atomic.Int64
}

// RecordDataset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDataset(points int, _ time.Duration, err error) {
	b.DatasetCount.Add(1)
	if err != nil {
		b.DatasetErrors.Add(1)
		return
	}
	b.DatasetPoints.Add(int64(points))
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(_, dropped int, _ time.Duration, err error) {
	b.DecodeCount.Add(1)
	if err != nil {
		b.DecodeErrors.Add(1)
		return
	}
	b.DecodeDropped.Add(int64(dropped))
}

// RecordScripts implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScripts(count int, _ time.Duration, err error) {
	if err != nil {
		b.ScriptErrors.Add(1)
		return
	}
	b.ScriptCount.Add(int64(count))
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(files, skipped int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
		return
	}
	b.ScanFiles.Add(int64(files))
	b.ScanSkipped.Add(int64(skipped))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ int, _ time.Duration, err error) {
	b.QueryCount.Add(1)
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DatasetCount:  b.DatasetCount.Load(),
		DatasetErrors: b.DatasetErrors.Load(),
		DatasetPoints: b.DatasetPoints.Load(),
		DecodeCount:   b.DecodeCount.Load(),
		DecodeErrors:  b.DecodeErrors.Load(),
		DecodeDropped: b.DecodeDropped.Load(),
		ScriptCount:   b.ScriptCount.Load(),
		ScriptErrors:  b.ScriptErrors.Load(),
		ScanCount:     b.ScanCount.Load(),
		ScanErrors:    b.ScanErrors.Load(),
		ScanFiles:     b.ScanFiles.Load(),
		ScanSkipped:   b.ScanSkipped.Load(),
		ScanAvgNanos:  b.getAvgScanNanos(),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgScanNanos() int64 {
	count := b.ScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.ScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DatasetCount  int64
	DatasetErrors int64
	DatasetPoints int64
	DecodeCount   int64
	DecodeErrors  int64
	DecodeDropped int64
	ScriptCount   int64
	ScriptErrors  int64
	ScanCount     int64
	ScanErrors    int64
	ScanFiles     int64
	ScanSkipped   int64
	ScanAvgNanos  int64
	QueryCount    int64
	QueryErrors   int64
}
