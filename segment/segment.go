package segment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecstream/blobstore"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/resource"
	"github.com/hupe1980/vecstream/vectorvalues"
)

// Segment is an opened segment file.
//
// A Segment is safe for concurrent use. The views returned by FloatValues,
// ByteValues and Values are not; create one view per cursor.
type Segment struct {
	blob   blobstore.Blob
	mapped []byte // nil unless the blob is memory mapped

	header Header
	docs   *roaring.Bitmap
	index  []blockEntry
	dense  bool

	verify bool
	rc     *resource.Controller
	logger *slog.Logger

	held atomic.Int64 // decoded block bytes accounted against rc
}

// Open reads and validates the header, the docs bitmap and the block index.
// Blocks are fetched lazily by the views. The Segment takes ownership of
// blob and closes it on Close.
func Open(ctx context.Context, blob blobstore.Blob, opts ...Option) (*Segment, error) {
	o := applyOptions(opts)

	s := &Segment{
		blob:   blob,
		verify: o.verifyChecksum,
		rc:     o.rc,
		logger: o.logger,
	}

	size := blob.Size()
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: blob too small (%d bytes)", ErrCorrupt, size)
	}

	if m, ok := blob.(blobstore.Mappable); ok {
		if b, err := m.Bytes(); err == nil && int64(len(b)) == size {
			s.mapped = b
		}
	}

	buf, err := s.read(ctx, 0, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("segment: read header: %w", err)
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.DocsOffset < HeaderSize ||
		h.DocsOffset+uint64(h.DocsLength) > h.IndexOffset ||
		h.IndexOffset+uint64(h.IndexLength) != uint64(size) {
		return nil, fmt.Errorf("%w: section offsets out of bounds", ErrCorrupt)
	}
	s.header = *h

	buf, err = s.read(ctx, int64(h.DocsOffset), int(h.DocsLength))
	if err != nil {
		return nil, fmt.Errorf("segment: read docs: %w", err)
	}
	if checksum(buf) != h.DocsChecksum {
		return nil, fmt.Errorf("%w: docs checksum mismatch", ErrCorrupt)
	}
	s.docs = roaring.New()
	if err := s.docs.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("%w: docs: %v", ErrCorrupt, err)
	}
	if s.docs.GetCardinality() != uint64(h.Count) {
		return nil, fmt.Errorf("%w: %d docs in bitmap, header says %d", ErrCorrupt, s.docs.GetCardinality(), h.Count)
	}
	if h.Count > 0 && s.docs.Maximum() >= math.MaxInt32 {
		return nil, fmt.Errorf("%w: doc id out of range", ErrCorrupt)
	}
	s.dense = h.Count == 0 || s.docs.Maximum() == h.Count-1

	buf, err = s.read(ctx, int64(h.IndexOffset), int(h.IndexLength))
	if err != nil {
		return nil, fmt.Errorf("segment: read index: %w", err)
	}
	if checksum(buf) != h.IndexChecksum {
		return nil, fmt.Errorf("%w: index checksum mismatch", ErrCorrupt)
	}
	if s.index, err = decodeIndex(buf, h, size); err != nil {
		return nil, err
	}

	s.logger.Debug("segment opened",
		"encoding", h.Encoding.String(),
		"dimension", h.Dim,
		"count", h.Count,
		"blocks", h.BlockCount,
		"compression", h.Compression.String(),
		"mapped", s.mapped != nil,
	)
	return s, nil
}

// read returns n bytes at off. Mapped blobs are sliced without copying.
func (s *Segment) read(ctx context.Context, off int64, n int) ([]byte, error) {
	if err := s.rc.AcquireIO(ctx, n); err != nil {
		return nil, err
	}
	if s.mapped != nil {
		return s.mapped[off : off+int64(n)], nil
	}
	buf := make([]byte, n)
	if err := blobstore.ReadFull(ctx, s.blob, buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// readBlock fetches the encoded bytes of block b and verifies their checksum.
func (s *Segment) readBlock(ctx context.Context, b int) ([]byte, error) {
	e := s.index[b]
	raw, err := s.read(ctx, int64(e.Offset), int(e.Length))
	if err != nil {
		return nil, fmt.Errorf("segment: read block %d: %w", b, err)
	}
	if s.verify && checksum(raw) != e.Checksum {
		return nil, fmt.Errorf("%w: block %d checksum mismatch", ErrCorrupt, b)
	}
	return raw, nil
}

// Header returns a copy of the file header.
func (s *Segment) Header() Header { return s.header }

// Encoding returns the element encoding of the stored vectors.
func (s *Segment) Encoding() model.Encoding { return s.header.Encoding }

// Dimension returns the number of elements per vector.
func (s *Segment) Dimension() int { return int(s.header.Dim) }

// Len returns the number of documents that have a vector.
func (s *Segment) Len() int { return int(s.header.Count) }

// Compression returns the block codec.
func (s *Segment) Compression() Compression { return s.header.Compression }

// BlockCount returns the number of blocks.
func (s *Segment) BlockCount() int { return len(s.index) }

// Docs returns a copy of the set of documents that have a vector.
func (s *Segment) Docs() *roaring.Bitmap { return s.docs.Clone() }

// FloatValues returns a new float32 view, or ErrEncodingMismatch.
func (s *Segment) FloatValues() (vectorvalues.FloatValues, error) {
	if s.header.Encoding != model.EncodingFloat32 {
		return nil, fmt.Errorf("%w: segment is %s", ErrEncodingMismatch, s.header.Encoding)
	}
	return newView[float32](s), nil
}

// ByteValues returns a new byte view, or ErrEncodingMismatch.
func (s *Segment) ByteValues() (vectorvalues.ByteValues, error) {
	if s.header.Encoding != model.EncodingByte {
		return nil, fmt.Errorf("%w: segment is %s", ErrEncodingMismatch, s.header.Encoding)
	}
	return newView[byte](s), nil
}

// Values returns a new view matching the stored encoding.
func (s *Segment) Values() vectorvalues.Values {
	if s.header.Encoding == model.EncodingFloat32 {
		return newView[float32](s)
	}
	return newView[byte](s)
}

// Close releases accounted memory and closes the blob. Views must not be
// used afterwards.
func (s *Segment) Close() error {
	s.rc.ReleaseMemory(s.held.Swap(0))
	return s.blob.Close()
}
