package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmbench/jobscript"
)

func newJobsCmd(a *app) *cobra.Command {
	var (
		out       string
		sweepFile string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Write Grid Engine job scripts for a sweep of runs",
		Long: `Write one job script per run of a sweep. Without --sweep the study's
default sweep is used: a serial run, 2-16 threads, 2-16 and 32 processes,
and 2-4 hybrid nodes. A sweep file is YAML:

  memory_gb: 10
  wall_time: 30m
  serial: true
  threads: [2, 4, 8]
  procs: [2, 4]
  hybrid_procs: [2]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sweep := jobscript.DefaultSweep()
			if sweepFile != "" {
				data, err := os.ReadFile(sweepFile)
				if err != nil {
					return err
				}
				if sweep, err = jobscript.LoadSweep(data); err != nil {
					return err
				}
			}

			if dryRun {
				cfgs, err := sweep.Configs()
				if err != nil {
					return err
				}
				for _, cfg := range cfgs {
					fmt.Fprintln(cmd.OutOrStdout(), cfg.ScriptName())
				}
				return nil
			}

			paths, err := a.harness.WriteScripts(cmd.Context(), out, sweep)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", ".", "output directory")
	f.StringVar(&sweepFile, "sweep", "", "YAML sweep file")
	f.BoolVar(&dryRun, "dry-run", false, "list the scripts without writing them")
	return cmd
}
