package segment

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecstream/internal/compress"
	"github.com/hupe1980/vecstream/internal/conv"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/vectorvalues"
	"golang.org/x/sync/errgroup"
)

// Writer builds a segment. Vectors are buffered until Close, which
// compresses the blocks and writes the whole file to the underlying writer.
type Writer struct {
	w    io.Writer
	enc  model.Encoding
	dim  int
	opts options

	docs   *roaring.Bitmap
	last   model.DocID
	rows   []byte // encoded vectors in doc order
	count  int
	closed bool
}

// NewWriter creates a writer for dim-dimensional vectors of encoding enc.
func NewWriter(w io.Writer, enc model.Encoding, dim int, opts ...Option) (*Writer, error) {
	if enc.ElementSize() == 0 {
		return nil, fmt.Errorf("segment: unsupported encoding %s", enc)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("segment: invalid dimension %d", dim)
	}
	o := applyOptions(opts)
	switch o.compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("%w: %d", compress.ErrUnknownType, o.compression)
	}
	return &Writer{
		w:    w,
		enc:  enc,
		dim:  dim,
		opts: o,
		docs: roaring.New(),
		last: -1,
	}, nil
}

// AddFloat appends the vector of doc to a float32 segment.
func (w *Writer) AddFloat(doc model.DocID, vec []float32) error {
	if err := w.check(doc, model.EncodingFloat32, len(vec)); err != nil {
		return err
	}
	for _, v := range vec {
		w.rows = binary.LittleEndian.AppendUint32(w.rows, math.Float32bits(v))
	}
	w.commit(doc)
	return nil
}

// AddByte appends the vector of doc to a byte segment.
func (w *Writer) AddByte(doc model.DocID, vec []byte) error {
	if err := w.check(doc, model.EncodingByte, len(vec)); err != nil {
		return err
	}
	w.rows = append(w.rows, vec...)
	w.commit(doc)
	return nil
}

func (w *Writer) check(doc model.DocID, enc model.Encoding, n int) error {
	if w.closed {
		return ErrClosed
	}
	if enc != w.enc {
		return fmt.Errorf("%w: writer is %s, got %s", ErrEncodingMismatch, w.enc, enc)
	}
	if !doc.Valid() {
		return fmt.Errorf("%w: %d", vectorvalues.ErrInvalidDoc, doc)
	}
	if doc <= w.last {
		return fmt.Errorf("%w: %d after %d", vectorvalues.ErrDocOrder, doc, w.last)
	}
	if n != w.dim {
		return fmt.Errorf("%w: expected %d, got %d", vectorvalues.ErrWrongDimension, w.dim, n)
	}
	return nil
}

func (w *Writer) commit(doc model.DocID) {
	w.docs.Add(uint32(doc))
	w.last = doc
	w.count++
}

// Len returns the number of vectors added so far.
func (w *Writer) Len() int { return w.count }

// Close compresses the buffered vectors and writes the segment. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	perBlock := w.opts.docsPerBlock
	rowBytes := w.dim * w.enc.ElementSize()
	nBlocks := int(blockCount(uint32(w.count), uint32(perBlock)))

	blocks := make([][]byte, nBlocks)
	var g errgroup.Group
	g.SetLimit(w.opts.concurrency)
	for b := range nBlocks {
		g.Go(func() error {
			start := b * perBlock * rowBytes
			end := min(start+perBlock*rowBytes, len(w.rows))
			enc, err := compress.Encode(w.rows[start:end], w.opts.compression)
			if err != nil {
				return fmt.Errorf("segment: compress block %d: %w", b, err)
			}
			blocks[b] = enc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.docs.RunOptimize()
	docs, err := w.docs.ToBytes()
	if err != nil {
		return fmt.Errorf("segment: encode docs: %w", err)
	}

	docsLen, err := conv.IntToUint32(len(docs))
	if err != nil {
		return fmt.Errorf("segment: docs: %w", err)
	}

	entries := make([]blockEntry, nBlocks)
	off := uint64(HeaderSize) + uint64(docsLen)
	for b, data := range blocks {
		n, err := conv.IntToUint32(len(data))
		if err != nil {
			return fmt.Errorf("segment: block %d: %w", b, err)
		}
		entries[b] = blockEntry{Offset: off, Length: n, Checksum: checksum(data)}
		off += uint64(n)
	}
	index := encodeIndex(entries)
	indexLen, err := conv.IntToUint32(len(index))
	if err != nil {
		return fmt.Errorf("segment: index: %w", err)
	}

	h := Header{
		Magic:         Magic,
		Version:       Version,
		Encoding:      w.enc,
		Compression:   w.opts.compression,
		Dim:           uint32(w.dim),
		Count:         uint32(w.count),
		DocsPerBlock:  uint32(perBlock),
		BlockCount:    uint32(nBlocks),
		DocsLength:    docsLen,
		DocsOffset:    HeaderSize,
		IndexOffset:   off,
		IndexLength:   indexLen,
		IndexChecksum: checksum(index),
		DocsChecksum:  checksum(docs),
	}

	bw := bufio.NewWriterSize(w.w, 1<<20)
	if _, err := bw.Write(h.Encode()); err != nil {
		return err
	}
	if _, err := bw.Write(docs); err != nil {
		return err
	}
	for _, data := range blocks {
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}
	if _, err := bw.Write(index); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	w.opts.logger.Debug("segment written",
		"encoding", w.enc.String(),
		"dimension", w.dim,
		"count", w.count,
		"blocks", nBlocks,
		"compression", w.opts.compression.String(),
		"bytes", off+uint64(len(index)),
	)
	w.rows = nil
	return nil
}

// WriteValues copies every vector of values into a new segment written to w.
func WriteValues[T vectorvalues.Element](w io.Writer, values vectorvalues.VectorValues[T], opts ...Option) error {
	sw, err := NewWriter(w, values.Encoding(), values.Dimension(), opts...)
	if err != nil {
		return err
	}

	it := values.Iterator()
	for {
		doc, err := it.NextDoc()
		if err != nil {
			return err
		}
		if doc == model.NoMoreDocs {
			break
		}
		vec, err := values.VectorValue(doc)
		if err != nil {
			return err
		}
		switch v := any(vec).(type) {
		case []float32:
			err = sw.AddFloat(doc, v)
		case []byte:
			err = sw.AddByte(doc, v)
		}
		if err != nil {
			return err
		}
	}
	return sw.Close()
}
