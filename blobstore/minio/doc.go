// Package minio provides a blobstore.BlobStore backed by MinIO or any other
// S3-compatible object store (Ceph, Garage, SeaweedFS).
//
// Segments written by the segment package can be served straight from a
// bucket; the segment reader only issues ranged GETs for the header, the
// docs bitmap, the block index and whichever blocks the cursor touches.
//
//	store, err := minio.New(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "vectors",
//	    Prefix:    "segments/",
//	})
//	seg, err := segment.Open(ctx, blob)
package minio
