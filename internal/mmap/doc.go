// Package mmap provides read-only memory-mapped file access for local blobs.
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile; access advice is a no-op there.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not use slices obtained from Bytes after Close returns.
package mmap
