package vecstream

import (
	"iter"

	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/vectorvalues"
)

// TypedReader is a pull-based sequence over a store whose encoding is fixed
// at compile time. There is no per-call encoding check.
//
// A TypedReader is not safe for concurrent use.
type TypedReader[T vectorvalues.Element] struct {
	cursor
	values vectorvalues.VectorValues[T]
}

// NewTypedReader creates a reader positioned before the first document of
// values.
func NewTypedReader[T vectorvalues.Element](values vectorvalues.VectorValues[T], opts ...Option) (*TypedReader[T], error) {
	if values == nil {
		return nil, ErrNilValues
	}
	return &TypedReader[T]{
		cursor: newCursor(values, applyOptions(opts)),
		values: values,
	}, nil
}

// NewFloatReader creates a TypedReader over a float32 store.
func NewFloatReader(values vectorvalues.FloatValues, opts ...Option) (*TypedReader[float32], error) {
	return NewTypedReader(values, opts...)
}

// NewByteReader creates a TypedReader over a byte store.
func NewByteReader(values vectorvalues.ByteValues, opts ...Option) (*TypedReader[byte], error) {
	return NewTypedReader(values, opts...)
}

// Next advances to the next document and returns its vector. ok is false at
// the end of the sequence.
func (r *TypedReader[T]) Next() (vec []T, ok bool, err error) {
	return next(&r.cursor, r.values)
}

// All returns an iterator over the remaining vectors. Iteration stops at the
// end of the sequence or after yielding the first error.
//
//	for vec, err := range r.All() {
//	    if err != nil { ... }
//	}
func (r *TypedReader[T]) All() iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for {
			vec, ok, err := r.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(vec, nil) {
				return
			}
		}
	}
}

// Doc returns the document the reader is positioned on: -1 before the first
// call and model.NoMoreDocs once exhausted.
func (r *TypedReader[T]) Doc() model.DocID { return r.doc() }

// State returns the lifecycle state of the reader.
func (r *TypedReader[T]) State() State { return r.state }
