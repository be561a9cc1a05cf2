package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmbench/internal/conv"
	"github.com/hupe1980/kmbench/internal/fs"
)

// PointElemSize is the on-disk width of one coordinate.
const PointElemSize = 8

// Point is an ordered tuple of coordinates.
type Point []float64

// PointSet is an ordered sequence of points of equal width. Cluster centers
// use the same type and layout.
type PointSet []Point

// Width returns the number of coordinates per point, or 0 for an empty set.
func (ps PointSet) Width() int {
	if len(ps) == 0 {
		return 0
	}
	return len(ps[0])
}

// Decoded is the result of decoding a point file.
type Decoded struct {
	// Points holds the first N rows whose coordinates are all finite.
	Points PointSet
	// Rows is the number of whole rows present in the input.
	Rows int
	// Dropped holds the indices of rows discarded for non-finite values.
	Dropped *roaring.Bitmap
}

// DroppedCount returns how many rows were discarded.
func (d Decoded) DroppedCount() int {
	if d.Dropped == nil {
		return 0
	}
	return int(d.Dropped.GetCardinality())
}

// AppendPoints appends the binary form of points to dst.
func AppendPoints(dst []byte, points PointSet) ([]byte, error) {
	width := points.Width()
	for i, p := range points {
		if len(p) != width {
			return dst, fmt.Errorf("point %d has %d coordinates, want %d: %w", i, len(p), width, ErrInconsistentWidth)
		}
		for _, v := range p {
			dst = binary.NativeEndian.AppendUint64(dst, math.Float64bits(v))
		}
	}
	return dst, nil
}

// EncodePoints writes points to w in row-major order with no header.
func EncodePoints(w io.Writer, points PointSet) error {
	size, err := conv.MulInt(len(points), points.Width(), PointElemSize)
	if err != nil {
		return err
	}
	buf, err := AppendPoints(make([]byte, 0, size), points)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// WritePointsFile atomically writes points to path.
func WritePointsFile(fsys fs.FileSystem, path string, points PointSet) error {
	var buf bytes.Buffer
	if err := EncodePoints(&buf, points); err != nil {
		return err
	}
	return fs.WriteFile(fsys, path, buf.Bytes(), 0o644)
}

// DecodePoints decodes n rows of width f from data.
//
// The byte length must be a multiple of 8*f. Rows holding a NaN or infinite
// coordinate are skipped and recorded in Decoded.Dropped; the first n
// remaining rows are returned. Fewer than n usable rows is an error.
func DecodePoints(data []byte, n, f int) (Decoded, error) {
	if n < 0 || f <= 0 {
		return Decoded{}, fmt.Errorf("invalid shape: rows=%d width=%d", n, f)
	}
	rowSize, err := conv.MulInt(f, PointElemSize)
	if err != nil {
		return Decoded{}, err
	}
	if len(data)%rowSize != 0 {
		return Decoded{}, &MalformedRecordError{
			ElemSize:     PointElemSize,
			Width:        f,
			Bytes:        len(data),
			ExpectedRows: n,
			Reason:       fmt.Sprintf("length is not a multiple of %d", rowSize),
		}
	}

	rows := len(data) / rowSize
	if rows < n {
		return Decoded{}, &MalformedRecordError{
			ElemSize:     PointElemSize,
			Width:        f,
			Bytes:        len(data),
			ExpectedRows: n,
			ValidRows:    rows,
			Reason:       "too few rows",
		}
	}

	total, err := conv.MulInt(n, f)
	if err != nil {
		return Decoded{}, err
	}

	dec := Decoded{
		Points:  make(PointSet, 0, n),
		Rows:    rows,
		Dropped: roaring.New(),
	}

	// One backing array keeps the decoded set contiguous.
	backing := make([]float64, total)
	for r := 0; r < rows && len(dec.Points) < n; r++ {
		row := data[r*rowSize : (r+1)*rowSize]
		lo, hi := len(dec.Points)*f, (len(dec.Points)+1)*f
		dst := backing[lo:hi:hi]
		finite := true
		for j := range dst {
			v := math.Float64frombits(binary.NativeEndian.Uint64(row[j*PointElemSize:]))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}
			dst[j] = v
		}
		if !finite {
			dec.Dropped.Add(uint32(r))
			continue
		}
		dec.Points = append(dec.Points, Point(dst))
	}

	if len(dec.Points) < n {
		return Decoded{}, &MalformedRecordError{
			ElemSize:     PointElemSize,
			Width:        f,
			Bytes:        len(data),
			ExpectedRows: n,
			ValidRows:    len(dec.Points),
			Reason:       fmt.Sprintf("too few finite rows (%d dropped)", dec.DroppedCount()),
		}
	}
	return dec, nil
}

// ReadPointsFile decodes n rows of width f from path. Files on the local
// file system are memory-mapped; other file systems are read in full.
func ReadPointsFile(fsys fs.FileSystem, path string, n, f int) (Decoded, error) {
	data, release, err := load(fsys, path)
	if err != nil {
		return Decoded{}, err
	}
	defer release()

	dec, err := DecodePoints(data, n, f)
	if err != nil {
		return Decoded{}, withPath(err, path)
	}
	return dec, nil
}
