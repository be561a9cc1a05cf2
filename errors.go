package kmbench

import (
	"errors"

	"github.com/hupe1980/kmbench/codec"
	"github.com/hupe1980/kmbench/dataset"
	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/results"
)

// ErrNoStore is returned by operations that need a blob store when none
// was configured.
var ErrNoStore = errors.New("kmbench: no blob store configured")

// Error types of the component packages, re-exported for errors.As.
type (
	// MalformedRecordError: a binary file's length does not match its
	// declared shape, or too few rows survived the non-finite filter.
	MalformedRecordError = codec.MalformedRecordError
	// ConfigurationError: a run configuration lacks a parameter its mode
	// requires.
	ConfigurationError = jobscript.ConfigurationError
	// InsufficientDataError: an aggregation or speedup over an empty series.
	InsufficientDataError = results.InsufficientDataError
	// UnrecognizedFileError: a scanned file name carries no mode or method.
	UnrecognizedFileError = results.UnrecognizedFileError
	// MalformedLogError: a scanned log could not be read or parsed.
	MalformedLogError = results.MalformedLogError
	// LengthMismatchError: an assignment file does not match its points.
	LengthMismatchError = dataset.LengthMismatchError
)
