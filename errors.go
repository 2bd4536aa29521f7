package vecstream

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecstream/model"
)

var (
	// ErrNilValues is returned when a reader is constructed without a store.
	ErrNilValues = errors.New("vector values must not be nil")

	// ErrUnsupportedValues is returned when a store is neither float32 nor
	// byte backed.
	ErrUnsupportedValues = errors.New("unsupported vector values")
)

// ReadError reports a failure of the underlying store while a reader was
// advancing its cursor or fetching a vector.
//
// The original underlying error can be accessed via errors.Unwrap. A reader
// that returned a ReadError keeps returning it.
type ReadError struct {
	// Doc is the document being read, or the last document reached when the
	// cursor itself failed.
	Doc model.DocID
	// Encoding is the encoding requested by the failing call.
	Encoding model.Encoding
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s vector for %s: %v", e.Encoding, e.Doc, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
