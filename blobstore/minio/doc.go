// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible services, which is the
// usual setup for a cluster scratch space without AWS credentials.
//
// # Basic Usage
//
//	store, err := minio.Dial(ctx, "localhost:9000", "minioadmin", "minioadmin",
//	    "kmbench", "runs/", false)
package minio
