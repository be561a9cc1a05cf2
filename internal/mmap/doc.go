// Package mmap provides read-only memory-mapped file access.
//
// The codec decodes point and label files straight out of the mapping, and
// the local blob store serves ReadAt calls from it.
//
//	m, err := mmap.Open("test_20000_2.txt")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2)/madvise(2) via golang.org/x/sys/unix; Windows uses
// CreateFileMapping/MapViewOfFile and ignores advice.
package mmap
