package results

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/hupe1980/kmbench/blobstore"
	kfs "github.com/hupe1980/kmbench/internal/fs"
	"github.com/hupe1980/kmbench/jobscript"
)

// Series holds the wall-clock samples in seconds of every key. Logs that
// map to the same key contribute to the same sample list.
type Series map[Key][]float64

// Keys returns the keys of s in mode, method and scale order.
func (s Series) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// Select returns the keys of the given mode and method, ascending by scale.
func (s Series) Select(mode jobscript.Mode, method jobscript.Method) []Key {
	var keys []Key
	for k, v := range s {
		if k.Mode == mode && k.Method == method && len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Scale < keys[j].Scale })
	return keys
}

func keyLess(a, b Key) bool {
	if a.Mode != b.Mode {
		return modeIndex(a.Mode) < modeIndex(b.Mode)
	}
	if a.Method != b.Method {
		return a.Method > b.Method // reg before clara
	}
	return a.Scale < b.Scale
}

func modeIndex(m jobscript.Mode) int {
	for i, mode := range jobscript.Modes {
		if mode == m {
			return i
		}
	}
	return len(jobscript.Modes)
}

// ScanReport is the outcome of scanning a directory of logs.
type ScanReport struct {
	Series Series
	// Diagnostics holds one *UnrecognizedFileError or *MalformedLogError
	// per skipped file.
	Diagnostics []error
	// Empty lists recognized logs that contained no wall-clock line.
	Empty []string
	// Files is the number of logs that contributed samples.
	Files int
}

func newReport() *ScanReport {
	return &ScanReport{Series: make(Series)}
}

func (r *ScanReport) add(name string, key Key, samples []float64) {
	if len(samples) == 0 {
		r.Empty = append(r.Empty, name)
		return
	}
	r.Series[key] = append(r.Series[key], samples...)
	r.Files++
}

// Scan parses every log in dir. Unrecognized or malformed files are
// reported in ScanReport.Diagnostics and do not stop the scan; only a
// failure to list dir is returned as an error. A nil fsys scans the local
// file system.
func Scan(fsys kfs.FileSystem, dir string) (*ScanReport, error) {
	if fsys == nil {
		fsys = kfs.Default
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("results: scan %s: %w", dir, err)
	}

	report := newReport()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		key, ok := ParseKey(e.Name())
		if !ok {
			report.Diagnostics = append(report.Diagnostics, &UnrecognizedFileError{Path: p})
			continue
		}

		samples, err := parseFile(fsys, p)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, err)
			continue
		}
		report.add(p, key, samples)
	}
	return report, nil
}

func parseFile(fsys kfs.FileSystem, p string) ([]float64, error) {
	f, err := fsys.OpenFile(p, os.O_RDONLY, 0)
	if err != nil {
		return nil, &MalformedLogError{Path: p, Err: err}
	}
	defer func() { _ = f.Close() }()

	return parseNamed(p, f)
}

// ScanStore parses every blob under prefix, with the same diagnostics
// semantics as Scan. Keys are derived from the last path element of each
// blob name.
func ScanStore(ctx context.Context, store blobstore.BlobStore, prefix string) (*ScanReport, error) {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("results: list %q: %w", prefix, err)
	}

	report := newReport()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, ok := ParseKey(path.Base(name))
		if !ok {
			report.Diagnostics = append(report.Diagnostics, &UnrecognizedFileError{Path: name})
			continue
		}

		data, err := blobstore.ReadAll(ctx, store, name)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, &MalformedLogError{Path: name, Err: err})
			continue
		}
		samples, err := parseNamed(name, bytes.NewReader(data))
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, err)
			continue
		}
		report.add(name, key, samples)
	}
	return report, nil
}
