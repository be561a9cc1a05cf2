package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/kmbench/codec"
	"github.com/hupe1980/kmbench/internal/fs"
)

// LengthMismatchError reports an assignment file whose label count differs
// from the number of points it is supposed to describe.
type LengthMismatchError struct {
	Path string
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("label set %s has %d entries, want %d", e.Path, e.Got, e.Want)
}

// ResultPaths names the files of one clustering run.
type ResultPaths struct {
	Clusters   string
	Clustering string
	Stats      string
}

// ResultPathsFor returns the result files of run idx for the data file at
// dataPath: <base>_<kind>_<idx><ext> in the same directory.
func ResultPathsFor(dataPath string, idx int) ResultPaths {
	return ResultPaths{
		Clusters:   rotated(dataPath, "clusters", idx),
		Clustering: rotated(dataPath, "clustering", idx),
		Stats:      rotated(dataPath, "stats", idx),
	}
}

func rotated(dataPath, kind string, idx int) string {
	dir, file := filepath.Split(dataPath)
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s", base, kind, idx, ext))
}

// NextResultIndex returns the first run index whose clusters file does not
// exist yet.
func NextResultIndex(fsys fs.FileSystem, dataPath string) int {
	idx := 0
	for fs.Exists(fsys, rotated(dataPath, "clusters", idx)) {
		idx++
	}
	return idx
}

// Stats is the run summary the executable writes after clustering.
type Stats struct {
	Error float64
	Time  float64
	Mode  string
}

// ParseStats reads a stats file of the form
//
//	Error: 1234.56789012
//	Time: 0
//	omp
func ParseStats(r io.Reader) (Stats, error) {
	var st Stats
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "Error:"):
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Error:")), 64)
			if err != nil {
				return Stats{}, fmt.Errorf("parse error value: %w", err)
			}
			st.Error = v
		case strings.HasPrefix(line, "Time:"):
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Time:")), 64)
			if err != nil {
				return Stats{}, fmt.Errorf("parse time value: %w", err)
			}
			st.Time = v
		default:
			st.Mode = line
		}
	}
	return st, sc.Err()
}

// ClusterResult is one decoded clustering run.
type ClusterResult struct {
	Centers     codec.PointSet
	Assignments codec.LabelSet
	// Stats is nil when the run wrote no stats file.
	Stats *Stats
	// DroppedCenters counts center rows discarded for non-finite values.
	DroppedCenters int
}

// LoadResult decodes run idx of the data file at dataPath: k centers of
// width f and n assignments, each in [0, k).
func LoadResult(fsys fs.FileSystem, dataPath string, idx, n, k, f int) (ClusterResult, error) {
	paths := ResultPathsFor(dataPath, idx)

	centers, err := codec.ReadPointsFile(fsys, paths.Clusters, k, f)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("load centers: %w", err)
	}

	assignments, err := codec.ReadLabelsFile(fsys, paths.Clustering)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("load assignments: %w", err)
	}
	if len(assignments) != n {
		return ClusterResult{}, &LengthMismatchError{Path: paths.Clustering, Want: n, Got: len(assignments)}
	}
	for i, a := range assignments {
		if a < 0 || int(a) >= k {
			return ClusterResult{}, fmt.Errorf("assignment %d of point %d in %s outside [0,%d)", a, i, paths.Clustering, k)
		}
	}

	res := ClusterResult{
		Centers:        centers.Points,
		Assignments:    assignments,
		DroppedCenters: centers.DroppedCount(),
	}

	data, err := fs.ReadFile(fsys, paths.Stats)
	switch {
	case err == nil:
		st, err := ParseStats(bytes.NewReader(data))
		if err != nil {
			return ClusterResult{}, fmt.Errorf("load stats %s: %w", paths.Stats, err)
		}
		res.Stats = &st
	case !os.IsNotExist(err):
		return ClusterResult{}, fmt.Errorf("load stats %s: %w", paths.Stats, err)
	}
	return res, nil
}
