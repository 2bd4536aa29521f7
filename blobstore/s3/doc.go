// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("segments/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	blob, err := store.Open(ctx, "field-0001.vseg")
//	seg, err := segment.Open(ctx, blob)
//
// # Features
//
//   - Range reads, so segments are fetched one block at a time
//   - Multipart uploads through the S3 transfer manager
//   - Automatic pagination for listing
package s3
