// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("kmedoids/"),
//	    s3.WithRegion("us-west-2"),
//	)
//
// # Features
//
//   - Range reads for partial fetches of large datasets
//   - Multipart uploads through the transfer manager
//   - Automatic pagination for listing
package s3
