package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("blobstore: injected fault")

// Fault defines a read failure.
type Fault struct {
	// FailAtOffset fails every read whose range covers this offset.
	// -1 disables the fault.
	FailAtOffset int64
	// FailAfterReads fails every read once this many reads have succeeded on
	// the blob. -1 disables the fault.
	FailAfterReads int64
	Err            error
}

// FaultyStore is a BlobStore wrapper that injects read errors into the blobs
// it opens. Writes pass through unchanged.
type FaultyStore struct {
	BlobStore
	mu    sync.Mutex
	rules map[string]Fault
	reads atomic.Int64
}

// NewFaultyStore wraps inner.
func NewFaultyStore(inner BlobStore) *FaultyStore {
	return &FaultyStore{
		BlobStore: inner,
		rules:     make(map[string]Fault),
	}
}

// AddRule adds a fault for every blob whose name contains pattern.
func (f *FaultyStore) AddRule(pattern string, fault Fault) {
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Reads returns the number of ReadAt and ReadRange calls seen so far.
func (f *FaultyStore) Reads() int64 {
	return f.reads.Load()
}

// Open opens a blob of the wrapped store with the matching fault applied.
func (f *FaultyStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := f.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	fault := Fault{FailAtOffset: -1, FailAfterReads: -1}
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	f.mu.Unlock()

	return &faultyBlob{Blob: b, store: f, fault: fault}, nil
}

type faultyBlob struct {
	Blob
	store *FaultyStore
	fault Fault
	ok    atomic.Int64
}

func (b *faultyBlob) check(off, length int64) error {
	b.store.reads.Add(1)
	if b.fault.FailAtOffset >= 0 && off <= b.fault.FailAtOffset && b.fault.FailAtOffset < off+length {
		return b.fault.Err
	}
	if b.fault.FailAfterReads >= 0 && b.ok.Load() >= b.fault.FailAfterReads {
		return b.fault.Err
	}
	b.ok.Add(1)
	return nil
}

func (b *faultyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.check(off, int64(len(p))); err != nil {
		return 0, err
	}
	return b.Blob.ReadAt(ctx, p, off)
}

func (b *faultyBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := b.check(off, length); err != nil {
		return nil, err
	}
	return b.Blob.ReadRange(ctx, off, length)
}
