// Package model defines core types shared by vecstream packages.
//
// # Identity Types
//
//   - DocID: segment-local document identifier (int32)
//   - NoMoreDocs: the cursor sentinel returned once a doc iterator is exhausted
//
// # Encodings
//
// A vector field stores its vectors in exactly one Encoding:
//
//   - EncodingFloat32: fixed-length []float32 vectors
//   - EncodingByte: fixed-length []byte vectors (byte-quantized or binary)
package model
