package model

import (
	"fmt"
	"math"
)

// DocID identifies a document within a segment.
type DocID int32

// NoMoreDocs is returned by a doc iterator once it is exhausted.
// It is larger than any valid DocID.
const NoMoreDocs DocID = math.MaxInt32

// Valid reports whether id names a real document.
func (id DocID) Valid() bool {
	return id >= 0 && id != NoMoreDocs
}

// String returns a string representation of the DocID.
func (id DocID) String() string {
	switch {
	case id == NoMoreDocs:
		return "Doc(none)"
	case id < 0:
		return "Doc(unpositioned)"
	default:
		return fmt.Sprintf("Doc(%d)", int32(id))
	}
}

// Encoding is the element type of the vectors in a field.
type Encoding uint8

const (
	// EncodingFloat32 stores vectors as float32 elements.
	EncodingFloat32 Encoding = iota + 1
	// EncodingByte stores vectors as byte elements.
	EncodingByte
)

// String returns the stable name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingFloat32:
		return "float32"
	case EncodingByte:
		return "byte"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// ElementSize returns the size in bytes of one vector element.
func (e Encoding) ElementSize() int {
	switch e {
	case EncodingFloat32:
		return 4
	case EncodingByte:
		return 1
	default:
		return 0
	}
}

// ParseEncoding parses the name produced by Encoding.String.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "float32", "float":
		return EncodingFloat32, nil
	case "byte":
		return EncodingByte, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}
