package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/kmbench/internal/conv"
	"github.com/hupe1980/kmbench/internal/fs"
)

// LabelElemSize is the on-disk width of one label.
const LabelElemSize = 4

// LabelSet holds one cluster id per point, either ground truth or a
// predicted assignment.
type LabelSet []int32

// AppendLabels appends the binary form of labels to dst.
func AppendLabels(dst []byte, labels LabelSet) []byte {
	for _, l := range labels {
		dst = binary.NativeEndian.AppendUint32(dst, uint32(l))
	}
	return dst
}

// EncodeLabels writes labels to w with no header.
func EncodeLabels(w io.Writer, labels LabelSet) error {
	size, err := conv.MulInt(len(labels), LabelElemSize)
	if err != nil {
		return err
	}
	_, err = w.Write(AppendLabels(make([]byte, 0, size), labels))
	return err
}

// WriteLabelsFile atomically writes labels to path.
func WriteLabelsFile(fsys fs.FileSystem, path string, labels LabelSet) error {
	var buf bytes.Buffer
	if err := EncodeLabels(&buf, labels); err != nil {
		return err
	}
	return fs.WriteFile(fsys, path, buf.Bytes(), 0o644)
}

// DecodeLabels decodes every label in data. No filtering is applied.
func DecodeLabels(data []byte) (LabelSet, error) {
	if len(data)%LabelElemSize != 0 {
		return nil, &MalformedRecordError{
			ElemSize: LabelElemSize,
			Width:    1,
			Bytes:    len(data),
			Reason:   fmt.Sprintf("length is not a multiple of %d", LabelElemSize),
		}
	}
	labels := make(LabelSet, len(data)/LabelElemSize)
	for i := range labels {
		labels[i] = int32(binary.NativeEndian.Uint32(data[i*LabelElemSize:]))
	}
	return labels, nil
}

// ReadLabelsFile decodes every label in path, with the same file system
// handling as ReadPointsFile.
func ReadLabelsFile(fsys fs.FileSystem, path string) (LabelSet, error) {
	data, release, err := load(fsys, path)
	if err != nil {
		return nil, err
	}
	defer release()

	labels, err := DecodeLabels(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	return labels, nil
}
