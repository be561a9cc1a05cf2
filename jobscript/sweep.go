package jobscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	kfs "github.com/hupe1980/kmbench/internal/fs"
)

// Sweep is a batch of runs sharing the same resources.
type Sweep struct {
	Resources `yaml:",inline" mapstructure:",squash"`

	Serial      bool  `yaml:"serial" mapstructure:"serial"`
	Threads     []int `yaml:"threads" mapstructure:"threads"`
	Procs       []int `yaml:"procs" mapstructure:"procs"`
	HybridProcs []int `yaml:"hybrid_procs" mapstructure:"hybrid_procs"`
}

// DefaultSweep returns the sweep of the published study: one serial run,
// 2 to 16 threads in steps of two, 2 to 16 processes in steps of two plus
// 32, and 2 to 4 hybrid nodes.
func DefaultSweep() Sweep {
	return Sweep{
		Resources:   DefaultResources(),
		Serial:      true,
		Threads:     []int{2, 4, 6, 8, 10, 12, 14, 16},
		Procs:       []int{2, 4, 6, 8, 10, 12, 14, 16, 32},
		HybridProcs: []int{2, 3, 4},
	}
}

// LoadSweep decodes a YAML sweep. Fields missing from the document keep
// their DefaultSweep values.
func LoadSweep(data []byte) (Sweep, error) {
	s := DefaultSweep()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sweep{}, fmt.Errorf("jobscript: decode sweep: %w", err)
	}
	return s, nil
}

// Configs expands the sweep into run configurations in presentation order.
func (s Sweep) Configs() ([]RunConfig, error) {
	var modes []ModeConfig
	if s.Serial {
		modes = append(modes, Serial{})
	}
	for _, n := range s.Threads {
		modes = append(modes, SharedMemory{Threads: n})
	}
	for _, n := range s.Procs {
		modes = append(modes, Distributed{Procs: n})
	}
	for _, n := range s.HybridProcs {
		modes = append(modes, Hybrid{Procs: n})
	}

	cfgs := make([]RunConfig, 0, len(modes))
	seen := make(map[string]bool, len(modes))
	for _, m := range modes {
		cfg, err := NewRunConfig(m, s.Resources)
		if err != nil {
			return nil, err
		}
		if seen[cfg.Tag()] {
			return nil, &ConfigurationError{Mode: cfg.Mode(), Field: "count", Reason: fmt.Sprintf("%d is listed twice", cfg.Units())}
		}
		seen[cfg.Tag()] = true
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

// WriteSweep renders every script of the sweep and writes them to dir as
// <tag>.sh. All scripts are rendered before the first file is written, so
// a configuration error leaves dir untouched. It returns the written paths
// in presentation order.
func WriteSweep(ctx context.Context, fsys kfs.FileSystem, dir string, sweep Sweep, env Environment) ([]string, error) {
	cfgs, err := sweep.Configs()
	if err != nil {
		return nil, err
	}

	scripts := make([]string, len(cfgs))
	for i, cfg := range cfgs {
		if scripts[i], err = Build(cfg, env); err != nil {
			return nil, err
		}
	}

	paths := make([]string, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, cfg := range cfgs {
		paths[i] = filepath.Join(dir, cfg.ScriptName())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := kfs.WriteFile(fsys, paths[i], []byte(scripts[i]), os.FileMode(0o755)); err != nil {
				return fmt.Errorf("jobscript: write %s: %w", paths[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
