package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmbench"
	"github.com/hupe1980/kmbench/dataset"
	kfs "github.com/hupe1980/kmbench/internal/fs"
	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/plot"
	"github.com/hupe1980/kmbench/results"
)

func newPlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render timing charts and clustering scatters",
	}
	cmd.AddCommand(newPlotTimingsCmd(a), newPlotClustersCmd(a))
	return cmd
}

type timingsFlags struct {
	dir    string
	out    string
	mode   string
	method string
	format string
}

func newPlotTimingsCmd(a *app) *cobra.Command {
	var tf timingsFlags

	cmd := &cobra.Command{
		Use:   "timings",
		Short: "Plot mean run time per thread, process or node count",
		Long: `Plot mean run time with standard-error bars against the serial baseline.
Without --mode and --method one chart is written per parallel mode and
method that has samples, named <method>_<mode>.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(plot.Formats, tf.format) {
				return fmt.Errorf("unknown format %q, want one of %v", tf.format, plot.Formats)
			}
			report, err := a.harness.Scan(cmd.Context(), tf.dir)
			if err != nil {
				return err
			}
			written, err := renderTimings(cmd.Context(), a.harness, report.Series, tf)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&tf.dir, "dir", "d", ".", "directory of run logs")
	f.StringVarP(&tf.out, "out", "o", ".", "output directory")
	f.StringVar(&tf.mode, "mode", "", "parallel mode: omp, mpi or hybrid (default all)")
	f.StringVar(&tf.method, "method", "", "method: reg or clara (default all)")
	f.StringVar(&tf.format, "format", "png", "image format")
	return cmd
}

func selection(tf timingsFlags) ([]jobscript.Mode, []jobscript.Method, error) {
	modes := []jobscript.Mode{jobscript.ModeSharedMemory, jobscript.ModeDistributed, jobscript.ModeHybrid}
	methods := jobscript.Methods

	if tf.mode != "" {
		m := jobscript.Mode(tf.mode)
		if !slices.Contains(modes, m) {
			return nil, nil, fmt.Errorf("unknown parallel mode %q", tf.mode)
		}
		modes = []jobscript.Mode{m}
	}
	if tf.method != "" {
		m := jobscript.Method(tf.method)
		if !slices.Contains(methods, m) {
			return nil, nil, fmt.Errorf("unknown method %q", tf.method)
		}
		methods = []jobscript.Method{m}
	}
	return modes, methods, nil
}

func renderTimings(ctx context.Context, h *kmbench.Harness, series results.Series, tf timingsFlags) ([]string, error) {
	modes, methods, err := selection(tf)
	if err != nil {
		return nil, err
	}
	explicit := tf.mode != "" && tf.method != ""

	var written []string
	for _, mode := range modes {
		for _, method := range methods {
			var buf bytes.Buffer
			err := plot.Timings(series, mode, method, &buf, tf.format)
			var ide *results.InsufficientDataError
			if errors.As(err, &ide) && !explicit {
				h.Logger().WithMode(string(mode)).DebugContext(ctx, "no samples to plot", "method", method)
				continue
			}
			if err != nil {
				return written, err
			}

			path := filepath.Join(tf.out, fmt.Sprintf("%s_%s.%s", method, mode, tf.format))
			if err := kfs.WriteFile(kfs.Default, path, buf.Bytes(), 0o644); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	if len(written) == 0 {
		return nil, plot.ErrNoSeries
	}
	return written, nil
}

type clustersFlags struct {
	data  string
	out   string
	index int
	k     int
}

func newPlotClustersCmd(a *app) *cobra.Command {
	var cf clustersFlags

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Plot a clustering run as an interactive HTML scatter",
		Long: `Plot the points of a dataset coloured by the assignments of one
clustering run, with the medoids in black. Run files are looked up next to
the data file as <base>_clusters_<i>, <base>_clustering_<i> and
<base>_stats_<i>. Without --index the latest run is used.`,
		Example: `  kmbench plot clusters --data data/test_20000_2.txt --k 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, f := a.cfg.Dataset.NumPoints, a.cfg.Dataset.NumFeatures
			if cmd.Flags().Changed("points") {
				n, _ = cmd.Flags().GetInt("points")
			}
			if cmd.Flags().Changed("features") {
				f, _ = cmd.Flags().GetInt("features")
			}
			if cf.k <= 0 {
				cf.k = a.cfg.Dataset.NumClusters
			}
			return renderClusters(cmd, a.harness, cf, n, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cf.data, "data", "", "point file of the dataset")
	fl.StringVarP(&cf.out, "out", "o", "clusters.html", "output HTML file")
	fl.IntVar(&cf.index, "index", -1, "run index (default latest)")
	fl.IntVar(&cf.k, "k", 0, "number of medoids (default dataset clusters)")
	fl.Int("points", 0, "number of points (default from config)")
	fl.Int("features", 0, "coordinates per point (default from config)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func renderClusters(cmd *cobra.Command, h *kmbench.Harness, cf clustersFlags, n, f int) error {
	ctx := cmd.Context()

	points, err := h.LoadPoints(ctx, cf.data, n, f)
	if err != nil {
		return err
	}

	idx := cf.index
	if idx < 0 {
		idx = dataset.NextResultIndex(kfs.Default, cf.data) - 1
		if idx < 0 {
			return fmt.Errorf("no clustering runs next to %s", cf.data)
		}
	}
	run, err := dataset.LoadResult(kfs.Default, cf.data, idx, n, cf.k, f)
	if err != nil {
		return err
	}
	if run.Stats != nil {
		h.Logger().WithPath(cf.data).InfoContext(ctx, "clustering run",
			"index", idx, "error", run.Stats.Error, "seconds", run.Stats.Time, "mode", run.Stats.Mode)
	}

	var buf bytes.Buffer
	if err := plot.Clustering(points.Points, run.Centers, run.Assignments, &buf); err != nil {
		return err
	}
	if err := kfs.WriteFile(kfs.Default, cf.out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cf.out)
	return nil
}
