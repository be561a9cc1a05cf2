package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmbench"
	"github.com/hupe1980/kmbench/results"
	"github.com/hupe1980/kmbench/results/sqlstore"
)

type reportFlags struct {
	dir    string
	prefix string
	db     string
	save   string
	load   string
	runs   bool
}

func newReportCmd(a *app) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the timing logs of finished runs",
		Example: `  kmbench report --dir logs
  kmbench report --dir logs --db bench.db --save 2024-05-01
  kmbench report --db bench.db --load 2024-05-01
  kmbench report --store s3 --prefix logs/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), a.harness, rf, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&rf.dir, "dir", "d", ".", "directory of run logs")
	f.StringVar(&rf.prefix, "prefix", "", "scan the configured blob store under this prefix instead of --dir")
	f.StringVar(&rf.db, "db", "", "SQLite database for saved runs")
	f.StringVar(&rf.save, "save", "", "save the scanned series under this run id (requires --db)")
	f.StringVar(&rf.load, "load", "", "report a saved run instead of scanning (requires --db)")
	f.BoolVar(&rf.runs, "runs", false, "list the saved runs (requires --db)")
	cmd.MarkFlagsMutuallyExclusive("load", "save")
	cmd.MarkFlagsMutuallyExclusive("load", "prefix")
	return cmd
}

var errNeedDB = errors.New("report: --db is required")

func runReport(ctx context.Context, h *kmbench.Harness, rf reportFlags, w io.Writer) error {
	var db *sqlstore.Store
	if rf.db != "" {
		var err error
		if db, err = sqlstore.Open(ctx, rf.db); err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
	} else if rf.save != "" || rf.load != "" || rf.runs {
		return errNeedDB
	}

	if rf.runs {
		return listRuns(ctx, db, w)
	}

	series, err := collect(ctx, h, rf, db)
	if err != nil {
		return err
	}

	if rf.save != "" {
		if err := db.Save(ctx, rf.save, series); err != nil {
			return err
		}
		h.Logger().InfoContext(ctx, "run saved", "run", rf.save, "keys", len(series))
	}

	report, err := h.Summarize(ctx, series)
	if err != nil {
		return err
	}
	return writeReport(w, report)
}

func collect(ctx context.Context, h *kmbench.Harness, rf reportFlags, db *sqlstore.Store) (results.Series, error) {
	if rf.load != "" {
		return db.Load(ctx, rf.load)
	}

	var (
		scan *results.ScanReport
		err  error
	)
	if rf.prefix != "" {
		scan, err = h.ScanStore(ctx, rf.prefix)
	} else {
		scan, err = h.Scan(ctx, rf.dir)
	}
	if err != nil {
		return nil, err
	}
	return scan.Series, nil
}

func listRuns(ctx context.Context, db *sqlstore.Store, w io.Writer) error {
	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tSAMPLES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Samples)
	}
	return tw.Flush()
}

func writeReport(w io.Writer, r kmbench.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tMETHOD\tSCALE\tMEAN\tSTDERR\tN")
	for _, s := range r.Summaries {
		for i, scale := range s.Scales {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.4f%s\t%.4f%s\t%d\n",
				s.Mode, s.Method, scale, s.Means[i], s.Unit, s.StdErrs[i], s.Unit, s.Samples[i])
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Speedups) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODE\tMETHOD\tSPEEDUP\tAT")
		for _, sp := range r.Speedups {
			fmt.Fprintf(tw, "%s\t%s\t%.2fx\t%d\n", sp.Mode, sp.Method, sp.Ratio, sp.Scale)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if r.MethodSpeedup > 0 {
		fmt.Fprintf(w, "\nserial CLARA speedup over PAM: %.2fx\n", r.MethodSpeedup)
	}
	return nil
}
