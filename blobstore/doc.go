// Package blobstore provides the storage abstraction vector segments are read
// from and written to.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use; an individual Blob is
// safe for concurrent ReadAt calls.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap-backed reads, atomic writes
//   - MemoryStore: in-memory, for tests and small tools
//   - FaultyStore: wraps another store and injects read failures
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
