// Package vecstream exposes the vectors of a vector field as a lazy,
// pull-based sequence, hiding whether the field is float32 or byte encoded.
//
// # Quick Start
//
// Typed reading, when the encoding is known at compile time:
//
//	values, _ := vectorvalues.Of([]float32{1, 2, 3}, []float32{4, 5, 6})
//	r, _ := vecstream.NewFloatReader(values)
//	for vec, err := range r.All() {
//	    if err != nil { ... }
//	    fmt.Println(vec)
//	}
//
// Runtime dispatch, when the store comes from a segment file:
//
//	seg, _ := segment.Open(ctx, blob)
//	r, _ := vecstream.NewReader(seg.Values())
//	switch r.Encoding() {
//	case model.EncodingFloat32:
//	    vec, ok, err := r.NextFloatVector()
//	case model.EncodingByte:
//	    vec, ok, err := r.NextByteVector()
//	}
//
// # Sequence Contract
//
//   - Every Next* call advances the cursor exactly once, whether or not it
//     returns data. Calling the accessor that does not match the store
//     encoding skips the document.
//   - The end of the sequence is signaled by ok == false with a nil error.
//     Once reached, every further call returns it without touching the store.
//   - A store failure is returned as a *ReadError. The reader is not usable
//     afterwards and keeps returning that error.
//   - Returned vectors are owned by the caller.
//
// # Observability
//
// WithLogger traces every call at debug level; WithMetrics records reads,
// skips, and failures.
package vecstream
