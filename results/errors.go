package results

import (
	"fmt"

	"github.com/hupe1980/kmbench/jobscript"
)

// InsufficientDataError is returned when an aggregation or speedup is
// requested over an empty series.
type InsufficientDataError struct {
	Mode   jobscript.Mode
	Method jobscript.Method
	// Baseline is set when the serial baseline rather than the target
	// series is missing.
	Baseline bool
}

func (e *InsufficientDataError) Error() string {
	if e.Baseline {
		return fmt.Sprintf("results: no serial %s baseline for %s", e.Method, e.Mode)
	}
	return fmt.Sprintf("results: no samples for %s %s", e.Mode, e.Method)
}

// UnrecognizedFileError reports a scanned file whose name carries no known
// mode or method token. The file is skipped.
type UnrecognizedFileError struct {
	Path string
}

func (e *UnrecognizedFileError) Error() string {
	return fmt.Sprintf("results: %s: no mode and method in file name", e.Path)
}

// MalformedLogError reports a log file that could not be read or parsed.
// The file is skipped.
type MalformedLogError struct {
	Path string
	// Line is the 1-based line number, or 0 when the failure is not tied
	// to a line.
	Line int
	Err  error
}

func (e *MalformedLogError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("results: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("results: %s: %v", e.Path, e.Err)
}

func (e *MalformedLogError) Unwrap() error {
	return e.Err
}
