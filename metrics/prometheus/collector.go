// Package prometheus exports harness metrics through a Prometheus registry.
//
// Batch jobs have no scrape endpoint, so the collector is usually written to
// a node-exporter textfile after a command finishes:
//
//	c := prometheus.NewCollector()
//	h := kmbench.New(kmbench.WithMetricsCollector(c))
//	// ... use h ...
//	_ = c.WriteTextfile("/var/lib/node_exporter/kmbench.prom")
package prometheus

import (
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/kmbench"
)

const namespace = "kmbench"

// Collector implements kmbench.MetricsCollector on top of its own registry.
type Collector struct {
	registry *promclient.Registry

	opLatency *promclient.HistogramVec
	items     *promclient.CounterVec
	skipped   promclient.Counter
	dropped   promclient.Counter
}

var _ kmbench.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector with a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: promclient.NewRegistry(),
		opLatency: promclient.NewHistogramVec(promclient.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of harness operations",
			Buckets:   promclient.DefBuckets,
		}, []string{"op", "status"}),
		items: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items produced or consumed by harness operations",
		}, []string{"op"}),
		skipped: promclient.NewCounter(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "scan_skipped_files_total",
			Help:      "Log files skipped by results scans",
		}),
		dropped: promclient.NewCounter(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "decode_dropped_rows_total",
			Help:      "Non-finite rows dropped while decoding point files",
		}),
	}
	c.registry.MustRegister(c.opLatency, c.items, c.skipped, c.dropped)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *promclient.Registry { return c.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return promclient.WriteToTextfile(path, c.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
}

// RecordDataset implements kmbench.MetricsCollector.
func (c *Collector) RecordDataset(points int, d time.Duration, err error) {
	c.observe("dataset", d, err)
	if err == nil {
		c.items.WithLabelValues("dataset").Add(float64(points))
	}
}

// RecordDecode implements kmbench.MetricsCollector.
func (c *Collector) RecordDecode(rows, dropped int, d time.Duration, err error) {
	c.observe("decode", d, err)
	if err == nil {
		c.items.WithLabelValues("decode").Add(float64(rows))
		c.dropped.Add(float64(dropped))
	}
}

// RecordScripts implements kmbench.MetricsCollector.
func (c *Collector) RecordScripts(count int, d time.Duration, err error) {
	c.observe("scripts", d, err)
	if err == nil {
		c.items.WithLabelValues("scripts").Add(float64(count))
	}
}

// RecordScan implements kmbench.MetricsCollector.
func (c *Collector) RecordScan(files, skipped int, d time.Duration, err error) {
	c.observe("scan", d, err)
	if err == nil {
		c.items.WithLabelValues("scan").Add(float64(files))
		c.skipped.Add(float64(skipped))
	}
}

// RecordQuery implements kmbench.MetricsCollector.
func (c *Collector) RecordQuery(summaries int, d time.Duration, err error) {
	c.observe("query", d, err)
	if err == nil {
		c.items.WithLabelValues("query").Add(float64(summaries))
	}
}
