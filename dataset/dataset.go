package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"github.com/hupe1980/kmbench/codec"
	"github.com/hupe1980/kmbench/internal/conv"
	"github.com/hupe1980/kmbench/internal/fs"
)

// ErrInvalidConfig is returned for a Config that cannot produce a dataset.
var ErrInvalidConfig = errors.New("invalid dataset config")

// Box bounds every coordinate of the sampled cluster centers.
type Box struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max"`
}

// Config describes a blob dataset.
type Config struct {
	NumPoints   int     `yaml:"num_points" mapstructure:"num_points"`
	NumFeatures int     `yaml:"num_features" mapstructure:"num_features"`
	NumClusters int     `yaml:"num_clusters" mapstructure:"num_clusters"`
	Spread      float64 `yaml:"spread" mapstructure:"spread"`
	Box         Box     `yaml:"box" mapstructure:"box"`
	// Seed makes generation reproducible. Nil means unseeded.
	Seed *uint64 `yaml:"seed,omitempty" mapstructure:"seed"`
}

// DefaultConfig returns the configuration used by the benchmark study.
func DefaultConfig() Config {
	return Config{
		NumPoints:   10000,
		NumFeatures: 2,
		NumClusters: 10,
		Spread:      6,
		Box:         Box{Min: -100, Max: 100},
	}
}

// Validate checks that c describes a non-empty dataset.
func (c Config) Validate() error {
	switch {
	case c.NumPoints <= 0:
		return fmt.Errorf("%w: num_points must be positive, got %d", ErrInvalidConfig, c.NumPoints)
	case c.NumFeatures <= 0:
		return fmt.Errorf("%w: num_features must be positive, got %d", ErrInvalidConfig, c.NumFeatures)
	case c.NumClusters <= 0:
		return fmt.Errorf("%w: num_clusters must be positive, got %d", ErrInvalidConfig, c.NumClusters)
	case c.Spread < 0:
		return fmt.Errorf("%w: spread must not be negative, got %g", ErrInvalidConfig, c.Spread)
	case !(c.Box.Max > c.Box.Min):
		return fmt.Errorf("%w: box max %g must exceed min %g", ErrInvalidConfig, c.Box.Max, c.Box.Min)
	}
	if _, err := conv.IntToInt32(c.NumClusters - 1); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := conv.MulInt(c.NumPoints, c.NumFeatures, codec.PointElemSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Dataset is a generated point set with its ground-truth labels.
type Dataset struct {
	Points  codec.PointSet
	Labels  codec.LabelSet
	Centers codec.PointSet
}

// Generate samples a dataset. It performs no I/O.
func Generate(cfg Config) (Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return Dataset{}, err
	}

	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewPCG(*cfg.Seed, ^*cfg.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	n, f, k := cfg.NumPoints, cfg.NumFeatures, cfg.NumClusters
	span := cfg.Box.Max - cfg.Box.Min

	centers := make(codec.PointSet, k)
	for i := range centers {
		c := make(codec.Point, f)
		for j := range c {
			c[j] = cfg.Box.Min + rng.Float64()*span
		}
		centers[i] = c
	}

	backing := make([]float64, n*f)
	points := make(codec.PointSet, n)
	labels := make(codec.LabelSet, n)
	for i := range points {
		label := rng.IntN(k)
		p := backing[i*f : (i+1)*f : (i+1)*f]
		for j := range p {
			p[j] = centers[label][j] + rng.NormFloat64()*cfg.Spread
		}
		points[i] = p
		// k fits in int32, checked by Validate.
		labels[i] = int32(label)
	}

	return Dataset{Points: points, Labels: labels, Centers: centers}, nil
}

// Paths names the two files a dataset is persisted to.
type Paths struct {
	Points string
	Labels string
}

// DefaultPaths returns the study's file names inside dir:
// test_<n>_<f>.txt and data_labels_<n>_<f>.txt.
func DefaultPaths(dir string, n, f int) Paths {
	return Paths{
		Points: filepath.Join(dir, fmt.Sprintf("test_%d_%d.txt", n, f)),
		Labels: filepath.Join(dir, fmt.Sprintf("data_labels_%d_%d.txt", n, f)),
	}
}

// Write persists the points and labels of ds.
func Write(fsys fs.FileSystem, ds Dataset, paths Paths) error {
	if err := codec.WritePointsFile(fsys, paths.Points, ds.Points); err != nil {
		return fmt.Errorf("write points %s: %w", paths.Points, err)
	}
	if err := codec.WriteLabelsFile(fsys, paths.Labels, ds.Labels); err != nil {
		return fmt.Errorf("write labels %s: %w", paths.Labels, err)
	}
	return nil
}

// Run generates a dataset, writes it to paths and returns the point set for
// immediate downstream use.
func Run(fsys fs.FileSystem, cfg Config, paths Paths) (codec.PointSet, error) {
	ds, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	if err := Write(fsys, ds, paths); err != nil {
		return nil, err
	}
	return ds.Points, nil
}
