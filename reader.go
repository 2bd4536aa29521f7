package vecstream

import (
	"fmt"

	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/vectorvalues"
)

// Reader is a pull-based sequence over the vectors of a store whose encoding
// is only known at runtime.
//
// The store is resolved once, at construction, into its float32 or byte
// variant. NextFloatVector and NextByteVector both advance the same cursor
// exactly once per call; calling the accessor that does not match the store
// returns the end marker for that document and moves on. Callers must know
// the encoding (see Encoding) and call the matching accessor.
//
// A Reader is not safe for concurrent use. Build one reader per goroutine
// over the same store instead.
type Reader struct {
	cursor
	enc    model.Encoding
	dim    int
	floats vectorvalues.FloatValues
	bytes  vectorvalues.ByteValues
}

// NewReader creates a reader positioned before the first document of values.
// values is not owned by the reader and must outlive it.
func NewReader(values vectorvalues.Values, opts ...Option) (*Reader, error) {
	if values == nil {
		return nil, ErrNilValues
	}

	r := &Reader{
		enc: values.Encoding(),
		dim: values.Dimension(),
	}

	switch v := values.(type) {
	case vectorvalues.FloatValues:
		r.floats = v
		r.enc = model.EncodingFloat32
	case vectorvalues.ByteValues:
		r.bytes = v
		r.enc = model.EncodingByte
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValues, values)
	}

	r.cursor = newCursor(values, applyOptions(opts))
	return r, nil
}

// NextFloatVector advances to the next document and returns its float32
// vector. ok is false at the end of the sequence and whenever the store is
// not float32 encoded.
func (r *Reader) NextFloatVector() (vec []float32, ok bool, err error) {
	return next(&r.cursor, r.floats)
}

// NextByteVector advances to the next document and returns its byte vector.
// ok is false at the end of the sequence and whenever the store is not byte
// encoded.
func (r *Reader) NextByteVector() (vec []byte, ok bool, err error) {
	return next(&r.cursor, r.bytes)
}

// Encoding returns the encoding of the underlying store.
func (r *Reader) Encoding() model.Encoding { return r.enc }

// Dimension returns the vector dimension of the underlying store.
func (r *Reader) Dimension() int { return r.dim }

// Doc returns the document the reader is positioned on: -1 before the first
// call and model.NoMoreDocs once exhausted.
func (r *Reader) Doc() model.DocID { return r.doc() }

// State returns the lifecycle state of the reader.
func (r *Reader) State() State { return r.state }
