package testutil

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// RNG wraps a seeded generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// UniformRows generates num rows of width dim with values in [minVal, maxVal).
// Rows share a single backing array.
func (r *RNG) UniformRows(num, dim int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	rows := make([][]float64, num)
	span := maxVal - minVal
	for i := range num {
		row := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range row {
			row[j] = minVal + r.rand.Float64()*span
		}
		rows[i] = row
	}
	return rows
}

// Durations returns num positive durations around mean seconds.
func (r *RNG) Durations(num int, mean float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, num)
	for i := range out {
		out[i] = mean * (0.9 + 0.2*r.rand.Float64())
	}
	return out
}

// WallLine formats seconds the way boost::timer::auto_cpu_timer reports a
// measurement.
func WallLine(seconds float64) string {
	return fmt.Sprintf(" %.6fs wall, %.6fs user + 0.000000s system = %.6fs CPU (100.0%%)", seconds, seconds, seconds)
}

// TimingLog renders a run log holding one wall line per duration, framed by
// the preamble and error line the executable prints.
func TimingLog(seconds ...float64) string {
	var b strings.Builder
	b.WriteString("Method: CLARA\nParallelism: omp\nData: test_20000_2.txt\n")
	for _, s := range seconds {
		b.WriteString(WallLine(s))
		b.WriteByte('\n')
	}
	b.WriteString("Error: 42.5\n")
	return b.String()
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(tb testing.TB, dir, name string, content []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteLog writes a timing log named name into dir.
func WriteLog(tb testing.TB, dir, name string, seconds ...float64) string {
	tb.Helper()
	return WriteFile(tb, dir, name, []byte(TimingLog(seconds...)))
}
