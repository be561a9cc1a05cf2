package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding/charmap"
)

// ParseLog extracts the wall-clock samples from a timing log. Every line
// containing "wall" is expected to start with the elapsed seconds followed
// by an "s", as in " 1.234567s wall, 1.2s user + ...". The log is decoded
// as Windows-1252.
func ParseLog(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(charmap.Windows1252.NewDecoder().Reader(r))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var samples []float64
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if !strings.Contains(text, "wall") {
			continue
		}
		head, _, _ := strings.Cut(text, "s")
		v, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
		if err != nil {
			return nil, &MalformedLogError{Line: line, Err: fmt.Errorf("wall time %q: %w", head, errors.Unwrap(err))}
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedLogError{Err: err}
	}
	return samples, nil
}

// decompress wraps r according to the compression suffix of name.
func decompress(name string, r io.Reader) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(name, ".lz4"):
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

func parseNamed(name string, r io.Reader) ([]float64, error) {
	dr, done, err := decompress(name, r)
	if err != nil {
		return nil, &MalformedLogError{Path: name, Err: err}
	}
	defer done()

	samples, err := ParseLog(dr)
	if err != nil {
		var mle *MalformedLogError
		if errors.As(err, &mle) {
			mle.Path = name
			return nil, mle
		}
		return nil, &MalformedLogError{Path: name, Err: err}
	}
	return samples, nil
}
