package vectorvalues

import (
	"errors"

	"github.com/hupe1980/vecstream/model"
)

var (
	// ErrWrongDimension is returned when a vector doesn't match the store dimension.
	ErrWrongDimension = errors.New("wrong vector dimension")

	// ErrDocOrder is returned when documents are not added in strictly ascending order.
	ErrDocOrder = errors.New("doc ids must be strictly ascending")

	// ErrNoVector is returned when a document has no vector in the store.
	ErrNoVector = errors.New("document has no vector")

	// ErrInvalidDoc is returned for negative ids and NoMoreDocs.
	ErrInvalidDoc = errors.New("invalid doc id")
)

// Element is the set of supported vector element types.
type Element interface {
	float32 | byte
}

// EncodingOf returns the Encoding that stores elements of type T.
func EncodingOf[T Element]() model.Encoding {
	var zero T
	switch any(zero).(type) {
	case float32:
		return model.EncodingFloat32
	default:
		return model.EncodingByte
	}
}

// DocIterator is a forward-only cursor over the documents of a store.
type DocIterator interface {
	// DocID returns the current document: -1 before the first call to
	// NextDoc and model.NoMoreDocs once exhausted.
	DocID() model.DocID

	// NextDoc advances to the next document and returns it, or
	// model.NoMoreDocs when there are no more documents. Once NoMoreDocs has
	// been returned, every further call returns it again.
	NextDoc() (model.DocID, error)
}

// Values is the encoding-independent view of a vector store.
type Values interface {
	Encoding() model.Encoding
	Dimension() int
	// Len returns the number of documents that have a vector.
	Len() int
	// Iterator returns a new cursor positioned before the first document.
	Iterator() DocIterator
}

// VectorValues is a store whose vectors have element type T.
//
// VectorValue must only be called with the document most recently returned
// by a cursor of this store. The returned slice is owned by the caller.
type VectorValues[T Element] interface {
	Values
	VectorValue(doc model.DocID) ([]T, error)
}

// FloatValues is a float32-encoded store.
type FloatValues = VectorValues[float32]

// ByteValues is a byte-encoded store.
type ByteValues = VectorValues[byte]
