package segment

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/vecstream/blobstore"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/resource"
	"github.com/hupe1980/vecstream/testutil"
	"github.com/hupe1980/vecstream/vectorvalues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFloatSegment(t *testing.T, docs []model.DocID, vecs [][]float32, opts ...Option) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, model.EncodingFloat32, len(vecs[0]), opts...)
	require.NoError(t, err)
	for i, v := range vecs {
		require.NoError(t, w.AddFloat(docs[i], v))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func openBytes(t *testing.T, data []byte, opts ...Option) *Segment {
	t.Helper()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "seg", data))
	blob, err := store.Open(context.Background(), "seg")
	require.NoError(t, err)
	seg, err := Open(context.Background(), blob, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = seg.Close() })
	return seg
}

func denseDocs(n int) []model.DocID {
	docs := make([]model.DocID, n)
	for i := range docs {
		docs[i] = model.DocID(i)
	}
	return docs
}

func collect[T vectorvalues.Element](t *testing.T, values vectorvalues.VectorValues[T]) ([]model.DocID, [][]T) {
	t.Helper()
	var docs []model.DocID
	var vecs [][]T
	it := values.Iterator()
	for {
		doc, err := it.NextDoc()
		require.NoError(t, err)
		if doc == model.NoMoreDocs {
			return docs, vecs
		}
		v, err := values.VectorValue(doc)
		require.NoError(t, err)
		docs = append(docs, doc)
		vecs = append(vecs, v)
	}
}

func TestRoundTrip_Float(t *testing.T) {
	rng := testutil.NewRNG(1)
	vecs := rng.UniformRangeVectors(100, 16, -2, 2)
	docs := denseDocs(len(vecs))

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			data := writeFloatSegment(t, docs, vecs, WithCompression(c), WithDocsPerBlock(7))
			seg := openBytes(t, data)

			assert.Equal(t, model.EncodingFloat32, seg.Encoding())
			assert.Equal(t, 16, seg.Dimension())
			assert.Equal(t, 100, seg.Len())
			assert.Equal(t, c, seg.Compression())
			assert.Equal(t, 15, seg.BlockCount())

			values, err := seg.FloatValues()
			require.NoError(t, err)
			gotDocs, gotVecs := collect(t, values)
			assert.Equal(t, docs, gotDocs)
			assert.Equal(t, vecs, gotVecs)
		})
	}
}

func TestRoundTrip_ByteSparse(t *testing.T) {
	docs := []model.DocID{2, 3, 10, 500, 70000}
	vecs := [][]byte{{1, 2}, {3, 4}, {0x80, 0xff}, {7, 8}, {9, 10}}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, model.EncodingByte, 2, WithDocsPerBlock(2), WithCompression(CompressionLZ4))
	require.NoError(t, err)
	for i, v := range vecs {
		require.NoError(t, w.AddByte(docs[i], v))
	}
	assert.Equal(t, 5, w.Len())
	require.NoError(t, w.Close())

	seg := openBytes(t, buf.Bytes())
	assert.Equal(t, uint64(5), seg.Docs().GetCardinality())

	values, err := seg.ByteValues()
	require.NoError(t, err)
	gotDocs, gotVecs := collect(t, values)
	assert.Equal(t, docs, gotDocs)
	assert.Equal(t, vecs, gotVecs)

	_, err = values.VectorValue(4)
	assert.ErrorIs(t, err, vectorvalues.ErrNoVector)
	_, err = values.VectorValue(model.NoMoreDocs)
	assert.ErrorIs(t, err, vectorvalues.ErrInvalidDoc)
}

func TestEmptySegment(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, model.EncodingFloat32, 4)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	seg := openBytes(t, buf.Bytes())
	assert.Equal(t, 0, seg.Len())
	assert.Equal(t, 0, seg.BlockCount())

	values, err := seg.FloatValues()
	require.NoError(t, err)
	docs, _ := collect(t, values)
	assert.Empty(t, docs)
}

func TestEncodingMismatch(t *testing.T) {
	data := writeFloatSegment(t, denseDocs(1), [][]float32{{1, 2}})
	seg := openBytes(t, data)

	_, err := seg.ByteValues()
	assert.ErrorIs(t, err, ErrEncodingMismatch)

	values := seg.Values()
	_, ok := values.(vectorvalues.FloatValues)
	assert.True(t, ok)
}

func TestWriter_Validation(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewWriter(&buf, model.Encoding(9), 4)
	assert.Error(t, err)
	_, err = NewWriter(&buf, model.EncodingFloat32, 0)
	assert.Error(t, err)
	_, err = NewWriter(&buf, model.EncodingFloat32, 4, WithCompression(Compression(9)))
	assert.Error(t, err)

	w, err := NewWriter(&buf, model.EncodingFloat32, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, w.AddByte(0, []byte{1, 2}), ErrEncodingMismatch)
	assert.ErrorIs(t, w.AddFloat(0, []float32{1}), vectorvalues.ErrWrongDimension)
	assert.ErrorIs(t, w.AddFloat(-1, []float32{1, 2}), vectorvalues.ErrInvalidDoc)
	require.NoError(t, w.AddFloat(5, []float32{1, 2}))
	assert.ErrorIs(t, w.AddFloat(5, []float32{1, 2}), vectorvalues.ErrDocOrder)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrClosed)
	assert.ErrorIs(t, w.AddFloat(6, []float32{1, 2}), ErrClosed)
}

func TestWriteValues(t *testing.T) {
	mem := vectorvalues.NewByteMemory(3)
	require.NoError(t, mem.Add(1, []byte{1, 2, 3}))
	require.NoError(t, mem.Add(4, []byte{4, 5, 6}))

	var buf bytes.Buffer
	require.NoError(t, WriteValues[byte](&buf, mem, WithCompression(CompressionZSTD)))

	seg := openBytes(t, buf.Bytes())
	values, err := seg.ByteValues()
	require.NoError(t, err)
	docs, vecs := collect(t, values)
	assert.Equal(t, []model.DocID{1, 4}, docs)
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5, 6}}, vecs)
}

func TestOpen_Corruption(t *testing.T) {
	rng := testutil.NewRNG(2)
	data := writeFloatSegment(t, denseDocs(10), rng.UniformRangeVectors(10, 4, -2, 2), WithDocsPerBlock(4))

	open := func(data []byte, opts ...Option) (*Segment, error) {
		store := blobstore.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), "seg", data))
		blob, err := store.Open(context.Background(), "seg")
		require.NoError(t, err)
		return Open(context.Background(), blob, opts...)
	}

	mutate := func(fn func(b []byte)) []byte {
		b := bytes.Clone(data)
		fn(b)
		return b
	}

	t.Run("Short", func(t *testing.T) {
		_, err := open(data[:10])
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("BadMagic", func(t *testing.T) {
		_, err := open(mutate(func(b []byte) { b[0] = 'X' }))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("Version", func(t *testing.T) {
		_, err := open(mutate(func(b []byte) { binary.LittleEndian.PutUint32(b[4:], 99) }))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("HeaderChecksum", func(t *testing.T) {
		_, err := open(mutate(func(b []byte) { b[12]++ }))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := open(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Docs", func(t *testing.T) {
		_, err := open(mutate(func(b []byte) { b[HeaderSize]++ }))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Index", func(t *testing.T) {
		_, err := open(mutate(func(b []byte) { b[len(b)-1]++ }))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Block", func(t *testing.T) {
		seg := openBytes(t, data)
		off := seg.index[1].Offset + 10

		corrupt := mutate(func(b []byte) { b[off]++ })
		s, err := open(corrupt)
		require.NoError(t, err)
		defer s.Close()

		values, err := s.FloatValues()
		require.NoError(t, err)
		_, err = values.VectorValue(0)
		require.NoError(t, err)
		_, err = values.VectorValue(5)
		assert.ErrorIs(t, err, ErrCorrupt)

		// Without verification the corrupted float is returned as is.
		s2, err := open(corrupt, WithVerifyChecksum(false))
		require.NoError(t, err)
		defer s2.Close()
		values, err = s2.FloatValues()
		require.NoError(t, err)
		_, err = values.VectorValue(5)
		assert.NoError(t, err)
	})

	t.Run("BlockSizeUnverified", func(t *testing.T) {
		seg := openBytes(t, data)
		off := seg.index[1].Offset

		forged := mutate(func(b []byte) { binary.LittleEndian.PutUint32(b[off:], math.MaxUint32) })
		s, err := open(forged, WithVerifyChecksum(false))
		require.NoError(t, err)
		defer s.Close()

		values, err := s.FloatValues()
		require.NoError(t, err)
		_, err = values.VectorValue(5)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestLazyBlockFetch(t *testing.T) {
	rng := testutil.NewRNG(3)
	vecs := rng.UniformRangeVectors(9, 2, -2, 2)
	data := writeFloatSegment(t, denseDocs(9), vecs, WithDocsPerBlock(3))

	faulty := blobstore.NewFaultyStore(blobstore.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, faulty.Put(ctx, "seg", data))

	blob, err := faulty.Open(ctx, "seg")
	require.NoError(t, err)
	seg, err := Open(ctx, blob)
	require.NoError(t, err)
	defer seg.Close()

	// header, docs, index
	assert.Equal(t, int64(3), faulty.Reads())

	values, err := seg.FloatValues()
	require.NoError(t, err)
	for doc := range 3 {
		v, err := values.VectorValue(model.DocID(doc))
		require.NoError(t, err)
		assert.Equal(t, vecs[doc], v)
	}
	assert.Equal(t, int64(4), faulty.Reads())

	_, err = values.VectorValue(7)
	require.NoError(t, err)
	assert.Equal(t, int64(5), faulty.Reads())
}

func TestBlockReadFailure(t *testing.T) {
	data := writeFloatSegment(t, denseDocs(3), [][]float32{{1}, {2}, {3}}, WithDocsPerBlock(1))

	faulty := blobstore.NewFaultyStore(blobstore.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, faulty.Put(ctx, "seg", data))
	faulty.AddRule("seg", blobstore.Fault{FailAtOffset: -1, FailAfterReads: 4})

	blob, err := faulty.Open(ctx, "seg")
	require.NoError(t, err)
	seg, err := Open(ctx, blob)
	require.NoError(t, err)
	defer seg.Close()

	values, err := seg.FloatValues()
	require.NoError(t, err)

	v, err := values.VectorValue(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, v)

	_, err = values.VectorValue(1)
	assert.ErrorIs(t, err, blobstore.ErrInjected)
	assert.False(t, errors.Is(err, ErrCorrupt))
}

func TestResourceController(t *testing.T) {
	rng := testutil.NewRNG(4)
	data := writeFloatSegment(t, denseDocs(8), rng.UniformRangeVectors(8, 4, -2, 2), WithDocsPerBlock(4))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	store := blobstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "seg", data))
	blob, err := store.Open(ctx, "seg")
	require.NoError(t, err)

	seg, err := Open(ctx, blob, WithResourceController(rc))
	require.NoError(t, err)
	assert.Greater(t, rc.IOBytes(), int64(HeaderSize))

	values, err := seg.FloatValues()
	require.NoError(t, err)
	_, err = values.VectorValue(0)
	require.NoError(t, err)
	// one block of 4 vectors x 4 float32
	assert.Equal(t, int64(64), rc.MemoryUsage())

	_, err = values.VectorValue(5)
	require.NoError(t, err)
	assert.Equal(t, int64(64), rc.MemoryUsage())

	require.NoError(t, seg.Close())
	assert.Zero(t, rc.MemoryUsage())
}

func TestResourceController_ReleaseAfterLastRow(t *testing.T) {
	data := writeFloatSegment(t, denseDocs(6), [][]float32{{1}, {2}, {3}, {4}, {5}, {6}}, WithDocsPerBlock(4))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
	seg := openBytes(t, data, WithResourceController(rc))

	values, err := seg.FloatValues()
	require.NoError(t, err)

	for doc := range 3 {
		_, err = values.VectorValue(model.DocID(doc))
		require.NoError(t, err)
		assert.Equal(t, int64(16), rc.MemoryUsage())
	}

	v, err := values.VectorValue(3)
	require.NoError(t, err)
	assert.Equal(t, []float32{4}, v)
	assert.Zero(t, rc.MemoryUsage())

	// The short trailing block is released after its last row too.
	_, err = values.VectorValue(4)
	require.NoError(t, err)
	assert.Equal(t, int64(8), rc.MemoryUsage())
	_, err = values.VectorValue(5)
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())
}

func TestResourceController_BusyLimitFailsFast(t *testing.T) {
	data := writeFloatSegment(t, denseDocs(2), [][]float32{{1, 2}, {3, 4}})

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
	seg := openBytes(t, data, WithResourceController(rc))

	first, err := seg.FloatValues()
	require.NoError(t, err)
	_, err = first.VectorValue(0)
	require.NoError(t, err)

	second, err := seg.FloatValues()
	require.NoError(t, err)
	_, err = second.VectorValue(0)
	assert.ErrorIs(t, err, resource.ErrMemoryLimit)

	_, err = first.VectorValue(1)
	require.NoError(t, err)
	v, err := second.VectorValue(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, v)
}

func TestResourceController_BlockTooLarge(t *testing.T) {
	data := writeFloatSegment(t, denseDocs(4), [][]float32{{1, 2}, {3, 4}, {5, 6}, {7, 8}})

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 8})
	seg := openBytes(t, data, WithResourceController(rc))

	values, err := seg.FloatValues()
	require.NoError(t, err)
	_, err = values.VectorValue(0)
	assert.ErrorIs(t, err, resource.ErrMemoryLimit)
}

func TestHeader_EncodeDecode(t *testing.T) {
	h := Header{
		Magic:        Magic,
		Version:      Version,
		Encoding:     model.EncodingByte,
		Compression:  CompressionZSTD,
		Dim:          8,
		Count:        5,
		DocsPerBlock: 2,
		BlockCount:   3,
		DocsOffset:   HeaderSize,
		DocsLength:   20,
		IndexOffset:  200,
		IndexLength:  3 * IndexEntrySize,
	}
	buf := h.Encode()
	require.Len(t, buf, HeaderSize)

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, *got)

	h.BlockCount = 2
	_, err = DecodeHeader(h.Encode())
	assert.ErrorIs(t, err, ErrCorrupt)
}
