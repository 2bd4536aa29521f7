package vecstream

import (
	"time"

	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/vectorvalues"
)

// State is the lifecycle state of a reader.
type State uint8

const (
	// StateActive means the cursor may still produce documents.
	StateActive State = iota
	// StateExhausted is terminal: every further call returns the end marker.
	StateExhausted
	// StateFailed is terminal: every further call returns the same *ReadError.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "active"
	}
}

// cursor owns the doc iterator of a reader together with its terminal and
// failure state. It is shared by Reader and TypedReader.
type cursor struct {
	it      vectorvalues.DocIterator
	state   State
	err     error
	read    int
	skipped int

	logger  *Logger
	metrics MetricsCollector
}

func newCursor(values vectorvalues.Values, o options) cursor {
	return cursor{
		it: values.Iterator(),
		logger: o.logger.
			WithEncoding(values.Encoding()).
			WithDimension(values.Dimension()),
		metrics: o.metrics,
	}
}

// advance moves the iterator exactly once unless the cursor is already
// exhausted or failed. ok is false at the end of the sequence.
func (c *cursor) advance(requested model.Encoding) (doc model.DocID, ok bool, err error) {
	if c.err != nil {
		return model.NoMoreDocs, false, c.err
	}
	if c.state == StateExhausted {
		return model.NoMoreDocs, false, nil
	}

	doc, err = c.it.NextDoc()
	if err != nil {
		return model.NoMoreDocs, false, c.fail(requested, c.it.DocID(), err)
	}
	if doc == model.NoMoreDocs {
		c.state = StateExhausted
		c.logger.LogExhausted(c.read, c.skipped)
		c.metrics.RecordExhausted()
		return model.NoMoreDocs, false, nil
	}
	return doc, true, nil
}

func (c *cursor) fail(requested model.Encoding, doc model.DocID, err error) error {
	c.err = &ReadError{Doc: doc, Encoding: requested, Err: err}
	c.state = StateFailed
	c.logger.LogFailure(requested, doc, err)
	return c.err
}

// doc returns the document the cursor is positioned on.
func (c *cursor) doc() model.DocID {
	return c.it.DocID()
}

// next advances the cursor and fetches the vector of the reached document
// from values. A nil values means the store does not hold T elements: the
// document is consumed and the end marker returned.
func next[T vectorvalues.Element](c *cursor, values vectorvalues.VectorValues[T]) ([]T, bool, error) {
	requested := vectorvalues.EncodingOf[T]()

	doc, ok, err := c.advance(requested)
	if err != nil || !ok {
		return nil, false, err
	}

	if values == nil {
		c.skipped++
		c.logger.LogSkip(requested, doc)
		c.metrics.RecordSkip(requested)
		return nil, false, nil
	}

	start := time.Now()
	vec, err := values.VectorValue(doc)
	c.metrics.RecordRead(requested, time.Since(start), err)
	if err != nil {
		return nil, false, c.fail(requested, doc, err)
	}

	c.read++
	c.logger.LogNext(requested, doc)
	return vec, true, nil
}
