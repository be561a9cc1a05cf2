// Package blobstore provides the storage abstraction for experiment
// artifacts.
//
// Generated datasets are published to a BlobStore so the cluster nodes can
// fetch them, and finished run logs can be scanned straight out of one.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, reads are memory-mapped
//   - MemoryStore: in-memory, for tests
//   - ThrottledStore: rate-limits uploads of another store
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
