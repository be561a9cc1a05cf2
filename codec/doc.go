// Package codec implements the header-less binary record format exchanged
// with the external k-medoids executable.
//
// Point sets and cluster centers are N*F 8-byte floats in row-major order;
// label and assignment sets are N 4-byte signed integers. Both use the
// platform's native byte order and carry no magic number, count, version or
// checksum: the reader must know N and F out of band.
//
// The layout is a breaking-change boundary. Any change to element width,
// ordering or byte order invalidates every previously written file, and no
// migration path exists.
//
// # Points
//
//	err := codec.WritePointsFile(fs.Default, "test_20000_2.txt", points)
//	dec, err := codec.ReadPointsFile(fs.Default, "test_20000_2.txt", 20000, 2)
//	fmt.Println(len(dec.Points), dec.DroppedCount())
//
// Decoding discards rows holding a NaN or infinite coordinate. The discarded
// row indices are returned in [Decoded.Dropped] so callers can report them.
//
// # Labels
//
//	err := codec.WriteLabelsFile(fs.Default, "data_labels_20000_2.txt", labels)
//	labels, err := codec.ReadLabelsFile(fs.Default, "data_labels_20000_2.txt")
//
// The codec does not check that a label set matches a point set in length;
// that is the consumer's job.
package codec
