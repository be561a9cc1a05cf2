package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/kmbench"
	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/blobstore/minio"
	"github.com/hupe1980/kmbench/blobstore/s3"
	"github.com/hupe1980/kmbench/metrics/prometheus"
)

// app holds what every subcommand shares. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config
	harness *kmbench.Harness
	metrics *prometheus.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "kmbench",
		Short: "Benchmark harness for parallel k-medoids clustering",
		Long: `kmbench drives the k-medoids benchmark end to end.

Commands:
  datagen   Generate a blob dataset in the binary point format
  jobs      Write Grid Engine job scripts for a sweep of runs
  report    Summarize the timing logs of finished runs
  plot      Render timing charts and clustering scatters

Configuration is read from kmbench.yaml in the working directory and from
KMBENCH_* environment variables, e.g. KMBENCH_STORE_KIND=s3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.flushMetrics(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./kmbench.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile on exit")
	pf.String("store", "", "blob store: local, s3 or minio")

	cmd.AddCommand(
		newDatagenCmd(a),
		newJobsCmd(a),
		newReportCmd(a),
		newPlotCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := newViper(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags(), map[string]string{
		"log-level":    "log_level",
		"log-format":   "log_format",
		"metrics-file": "metrics_file",
		"store":        "store.kind",
	}); err != nil {
		return err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}

	a.metrics = prometheus.NewCollector()
	a.harness = kmbench.New(
		kmbench.WithLogger(logger),
		kmbench.WithMetricsCollector(a.metrics),
		kmbench.WithStore(store),
		kmbench.WithUploadLimit(cfg.Store.UploadLimit),
		kmbench.WithEnvironment(cfg.Environment),
	)
	return nil
}

func (a *app) flushMetrics(ctx context.Context) error {
	if a.metrics == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.harness.Logger().WithPath(a.cfg.MetricsFile).DebugContext(ctx, "metrics written")
	return nil
}

func newLogger(w io.Writer, cfg config) (*kmbench.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.LogFormat {
	case "", "text":
		return kmbench.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return kmbench.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
}

// errBucketRequired is returned for a remote store without a bucket.
var errBucketRequired = errors.New("store: bucket is required")

func openStore(ctx context.Context, sc storeConfig) (blobstore.BlobStore, error) {
	switch sc.Kind {
	case "":
		return nil, nil
	case "local":
		if sc.Root == "" {
			return nil, errors.New("store: root is required for a local store")
		}
		return blobstore.NewLocalStore(sc.Root), nil
	case "s3":
		if sc.Bucket == "" {
			return nil, errBucketRequired
		}
		var opts []s3.Option
		if sc.Prefix != "" {
			opts = append(opts, s3.WithPrefix(sc.Prefix))
		}
		if sc.Region != "" {
			opts = append(opts, s3.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(sc.Endpoint))
		}
		return s3.New(ctx, sc.Bucket, opts...)
	case "minio":
		if sc.Bucket == "" {
			return nil, errBucketRequired
		}
		return minio.Dial(ctx, sc.Endpoint, sc.AccessKey, sc.SecretKey, sc.Bucket, sc.Prefix, sc.Secure)
	default:
		return nil, fmt.Errorf("unknown store kind %q", sc.Kind)
	}
}
