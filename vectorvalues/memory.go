package vectorvalues

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecstream/model"
)

// Memory is an in-memory vector store.
//
// Documents are added in strictly ascending order. Once reads start the
// store must not be modified; concurrent cursors are then safe.
type Memory[T Element] struct {
	dim  int
	docs *roaring.Bitmap
	vecs [][]T
	last model.DocID
}

// NewMemory creates an empty store for dim-dimensional vectors.
func NewMemory[T Element](dim int) *Memory[T] {
	return &Memory[T]{
		dim:  dim,
		docs: roaring.New(),
		last: -1,
	}
}

// Of creates a dense store holding vecs as documents 0..len(vecs)-1.
// The dimension is taken from the first vector.
func Of[T Element](vecs ...[]T) (*Memory[T], error) {
	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}
	m := NewMemory[T](dim)
	for i, v := range vecs {
		if err := m.Add(model.DocID(i), v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewFloatMemory creates an empty float32 store.
func NewFloatMemory(dim int) *Memory[float32] { return NewMemory[float32](dim) }

// NewByteMemory creates an empty byte store.
func NewByteMemory(dim int) *Memory[byte] { return NewMemory[byte](dim) }

// Add stores a copy of vec for doc.
func (m *Memory[T]) Add(doc model.DocID, vec []T) error {
	if !doc.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDoc, doc)
	}
	if doc <= m.last {
		return fmt.Errorf("%w: %d after %d", ErrDocOrder, doc, m.last)
	}
	if len(vec) != m.dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongDimension, m.dim, len(vec))
	}
	m.docs.Add(uint32(doc))
	m.vecs = append(m.vecs, slices.Clone(vec))
	m.last = doc
	return nil
}

// Encoding implements Values.
func (m *Memory[T]) Encoding() model.Encoding { return EncodingOf[T]() }

// Dimension implements Values.
func (m *Memory[T]) Dimension() int { return m.dim }

// Len implements Values.
func (m *Memory[T]) Len() int { return len(m.vecs) }

// Docs returns a copy of the set of documents that have a vector.
func (m *Memory[T]) Docs() *roaring.Bitmap { return m.docs.Clone() }

// Iterator implements Values.
func (m *Memory[T]) Iterator() DocIterator {
	if int(m.last)+1 == len(m.vecs) {
		return DenseIterator(len(m.vecs))
	}
	return BitmapIterator(m.docs)
}

// VectorValue implements VectorValues.
func (m *Memory[T]) VectorValue(doc model.DocID) ([]T, error) {
	if !doc.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDoc, doc)
	}
	if !m.docs.Contains(uint32(doc)) {
		return nil, fmt.Errorf("%w: %d", ErrNoVector, doc)
	}
	ord := m.docs.Rank(uint32(doc)) - 1
	return slices.Clone(m.vecs[ord]), nil
}

var (
	_ FloatValues = (*Memory[float32])(nil)
	_ ByteValues  = (*Memory[byte])(nil)
)
