package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDatagenCmd(a *app) *cobra.Command {
	var (
		out  string
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "datagen",
		Short: "Generate a blob dataset in the binary point format",
		Example: `  kmbench datagen --points 20000 --features 2 --clusters 10 --out data
  kmbench datagen --seed 42 --store s3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Dataset
			f := cmd.Flags()
			if f.Changed("points") {
				cfg.NumPoints, _ = f.GetInt("points")
			}
			if f.Changed("features") {
				cfg.NumFeatures, _ = f.GetInt("features")
			}
			if f.Changed("clusters") {
				cfg.NumClusters, _ = f.GetInt("clusters")
			}
			if f.Changed("spread") {
				cfg.Spread, _ = f.GetFloat64("spread")
			}
			if f.Changed("seed") {
				cfg.Seed = &seed
			}

			paths, err := a.harness.GenerateDataset(cmd.Context(), cfg, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), paths.Points)
			fmt.Fprintln(cmd.OutOrStdout(), paths.Labels)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", ".", "output directory")
	f.Int("points", 0, "number of points (default from config)")
	f.Int("features", 0, "coordinates per point (default from config)")
	f.Int("clusters", 0, "number of blobs (default from config)")
	f.Float64("spread", 0, "standard deviation of each blob (default from config)")
	f.Uint64Var(&seed, "seed", 0, "seed for reproducible output")
	return cmd
}
