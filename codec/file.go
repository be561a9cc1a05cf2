package codec

import (
	"github.com/hupe1980/kmbench/internal/fs"
	"github.com/hupe1980/kmbench/internal/mmap"
)

// load returns the contents of path and a function releasing them. The
// decoders copy what they keep, so the bytes must not outlive release.
func load(fsys fs.FileSystem, path string) ([]byte, func(), error) {
	if fsys == nil {
		fsys = fs.Default
	}
	if _, local := fsys.(fs.LocalFS); local {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, nil, err
		}
		_ = m.Advise(mmap.AccessSequential)
		return m.Bytes(), func() { _ = m.Close() }, nil
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}
