package results

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/kmbench/jobscript"
)

// Unit is the time unit of a Summary.
type Unit string

const (
	Seconds      Unit = "s"
	Milliseconds Unit = "ms"
)

// msThreshold is the mean, in seconds, below which a whole series is
// reported in milliseconds.
const msThreshold = 1.5

// Summary holds the per-scale statistics of one mode and method.
type Summary struct {
	Mode   jobscript.Mode
	Method jobscript.Method
	// Scales are ascending.
	Scales []int
	// Means and StdErrs are expressed in Unit.
	Means   []float64
	StdErrs []float64
	// Samples is the number of samples behind each mean.
	Samples []int
	Unit    Unit
}

// Label returns the axis label for the summary's unit.
func (s Summary) Label() string {
	if s.Unit == Milliseconds {
		return "Time (ms)"
	}
	return "Time (s)"
}

// Aggregate computes mean and standard error per scale. If every mean is
// below 1.5 seconds, means and errors are both converted to milliseconds.
func Aggregate(series Series, mode jobscript.Mode, method jobscript.Method) (Summary, error) {
	keys := series.Select(mode, method)
	if len(keys) == 0 {
		return Summary{}, &InsufficientDataError{Mode: mode, Method: method}
	}

	sum := Summary{
		Mode:    mode,
		Method:  method,
		Scales:  make([]int, len(keys)),
		Means:   make([]float64, len(keys)),
		StdErrs: make([]float64, len(keys)),
		Samples: make([]int, len(keys)),
		Unit:    Seconds,
	}
	for i, k := range keys {
		xs := series[k]
		sum.Scales[i] = k.Scale
		sum.Means[i] = stat.Mean(xs, nil)
		sum.StdErrs[i] = stdErr(xs)
		sum.Samples[i] = len(xs)
	}

	if floats.Max(sum.Means) < msThreshold {
		floats.Scale(1000, sum.Means)
		floats.Scale(1000, sum.StdErrs)
		sum.Unit = Milliseconds
	}
	return sum, nil
}

// stdErr is the unbiased sample standard deviation over sqrt(n), and 0 for
// a single sample.
func stdErr(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil) / math.Sqrt(float64(len(xs)))
}

// Summaries aggregates every mode and method present in series.
func Summaries(series Series) []Summary {
	var out []Summary
	for _, mode := range jobscript.Modes {
		for _, method := range jobscript.Methods {
			if s, err := Aggregate(series, mode, method); err == nil {
				out = append(out, s)
			}
		}
	}
	return out
}

// SpeedupResult compares the fastest scale of a series with the serial
// baseline. Means are in seconds.
type SpeedupResult struct {
	Mode   jobscript.Mode
	Method jobscript.Method
	// Ratio is BaselineMean / BestMean.
	Ratio        float64
	Scale        int
	BaselineMean float64
	BestMean     float64
}

// Speedup finds the scale with the lowest mean time for mode and method
// and divides the serial mean of the same method by it. The serial
// baseline is the lowest-scale serial entry.
func Speedup(series Series, mode jobscript.Mode, method jobscript.Method) (SpeedupResult, error) {
	keys := series.Select(mode, method)
	if len(keys) == 0 {
		return SpeedupResult{}, &InsufficientDataError{Mode: mode, Method: method}
	}
	baseline, err := serialMean(series, method)
	if err != nil {
		return SpeedupResult{}, &InsufficientDataError{Mode: mode, Method: method, Baseline: true}
	}

	means := make([]float64, len(keys))
	for i, k := range keys {
		means[i] = stat.Mean(series[k], nil)
	}
	best := floats.MinIdx(means)

	return SpeedupResult{
		Mode:         mode,
		Method:       method,
		Ratio:        baseline / means[best],
		Scale:        keys[best].Scale,
		BaselineMean: baseline,
		BestMean:     means[best],
	}, nil
}

// MethodSpeedup returns how many times faster serial CLARA ran than serial
// PAM.
func MethodSpeedup(series Series) (float64, error) {
	reg, err := serialMean(series, jobscript.MethodReg)
	if err != nil {
		return 0, err
	}
	clara, err := serialMean(series, jobscript.MethodClara)
	if err != nil {
		return 0, err
	}
	return reg / clara, nil
}

func serialMean(series Series, method jobscript.Method) (float64, error) {
	keys := series.Select(jobscript.ModeSerial, method)
	if len(keys) == 0 {
		return 0, &InsufficientDataError{Mode: jobscript.ModeSerial, Method: method}
	}
	return stat.Mean(series[keys[0]], nil), nil
}
