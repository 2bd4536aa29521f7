package segment

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"unsafe"

	"github.com/hupe1980/vecstream/internal/compress"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/resource"
	"github.com/hupe1980/vecstream/vectorvalues"
)

// view is a cursor-local window onto a segment holding one decoded block.
type view[T vectorvalues.Element] struct {
	seg   *Segment
	block int
	vecs  []T
	held  int64
}

func newView[T vectorvalues.Element](s *Segment) *view[T] {
	return &view[T]{seg: s, block: -1}
}

func (v *view[T]) Encoding() model.Encoding { return v.seg.header.Encoding }

func (v *view[T]) Dimension() int { return int(v.seg.header.Dim) }

func (v *view[T]) Len() int { return int(v.seg.header.Count) }

func (v *view[T]) Iterator() vectorvalues.DocIterator {
	if v.seg.dense {
		return vectorvalues.DenseIterator(v.Len())
	}
	return vectorvalues.BitmapIterator(v.seg.docs)
}

// VectorValue returns a copy of the vector of doc, fetching its block on
// first access.
func (v *view[T]) VectorValue(doc model.DocID) ([]T, error) {
	if !doc.Valid() {
		return nil, fmt.Errorf("%w: %d", vectorvalues.ErrInvalidDoc, doc)
	}
	if !v.seg.docs.Contains(uint32(doc)) {
		return nil, fmt.Errorf("%w: %d", vectorvalues.ErrNoVector, doc)
	}

	perBlock := int(v.seg.header.DocsPerBlock)
	ord := int(v.seg.docs.Rank(uint32(doc))) - 1
	b := ord / perBlock
	if b != v.block {
		if err := v.load(b); err != nil {
			return nil, err
		}
	}

	dim := v.Dimension()
	row := ord - b*perBlock
	vec := slices.Clone(v.vecs[row*dim : (row+1)*dim])

	// Cursors walk blocks in order, so the block is dropped once its last
	// row has been served. An exhausted cursor holds no memory.
	if row == v.seg.header.rowsInBlock(b)-1 {
		v.release()
	}
	return vec, nil
}

func (v *view[T]) load(b int) error {
	// Reads are not cancellable; a blob read runs to completion or error.
	ctx := context.Background()
	s := v.seg

	raw, err := s.readBlock(ctx, b)
	if err != nil {
		return err
	}
	rows := s.header.rowsInBlock(b)
	data, err := compress.Decode(raw, s.header.Compression, rows*s.header.rowBytes())
	if err != nil {
		return fmt.Errorf("%w: block %d: %v", ErrCorrupt, b, err)
	}
	if len(data) != rows*s.header.rowBytes() {
		return fmt.Errorf("%w: block %d holds %d bytes, want %d", ErrCorrupt, b, len(data), rows*s.header.rowBytes())
	}

	v.release()

	var zero T
	size := int64(rows*int(s.header.Dim)) * int64(unsafe.Sizeof(zero))
	if !s.rc.TryAcquireMemory(size) {
		return fmt.Errorf("segment: block %d (%d bytes, %d in use): %w", b, size, s.rc.MemoryUsage(), resource.ErrMemoryLimit)
	}
	v.held = size
	s.held.Add(size)

	v.vecs = decodeRows[T](data, rows*int(s.header.Dim))
	v.block = b

	s.logger.Debug("segment block loaded", "block", b, "rows", rows, "bytes", len(raw))
	return nil
}

func (v *view[T]) release() {
	if v.held > 0 {
		v.seg.rc.ReleaseMemory(v.held)
		v.seg.held.Add(-v.held)
		v.held = 0
	}
	v.vecs = nil
	v.block = -1
}

func decodeRows[T vectorvalues.Element](data []byte, n int) []T {
	out := make([]T, n)
	switch dst := any(out).(type) {
	case []float32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case []byte:
		copy(dst, data)
	}
	return out
}

var (
	_ vectorvalues.FloatValues = (*view[float32])(nil)
	_ vectorvalues.ByteValues  = (*view[byte])(nil)
)
