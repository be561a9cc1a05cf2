package codec

import (
	"errors"
	"fmt"
)

// ErrInconsistentWidth is returned when encoding a point set whose points
// do not all have the same number of coordinates.
var ErrInconsistentWidth = errors.New("points have inconsistent width")

// MalformedRecordError reports a binary file whose size or content does not
// fit the declared shape.
type MalformedRecordError struct {
	Path         string // empty when decoding an in-memory buffer
	ElemSize     int
	Width        int
	Bytes        int
	ExpectedRows int
	ValidRows    int
	Reason       string
}

func (e *MalformedRecordError) Error() string {
	name := e.Path
	if name == "" {
		name = "<buffer>"
	}
	return fmt.Sprintf("malformed record file %s: %s (bytes=%d, element size=%d, width=%d, expected rows=%d, valid rows=%d)",
		name, e.Reason, e.Bytes, e.ElemSize, e.Width, e.ExpectedRows, e.ValidRows)
}

func withPath(err error, path string) error {
	var mre *MalformedRecordError
	if errors.As(err, &mre) {
		mre.Path = path
	}
	return err
}
