package segment

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/vecstream/internal/compress"
	"github.com/hupe1980/vecstream/internal/hash"
	"github.com/hupe1980/vecstream/model"
)

const (
	// Magic identifies a segment file ("VSEG").
	Magic uint32 = 0x47455356
	// Version is the current format version.
	Version uint32 = 1
	// HeaderSize is the fixed size of the file header.
	HeaderSize = 64
	// IndexEntrySize is the size of one block index entry.
	IndexEntrySize = 16
	// DefaultDocsPerBlock is the number of vectors per block.
	DefaultDocsPerBlock = 1024
)

var (
	// ErrBadMagic is returned when a blob is not a segment.
	ErrBadMagic = errors.New("segment: bad magic")
	// ErrUnsupportedVersion is returned for segments written by a newer format.
	ErrUnsupportedVersion = errors.New("segment: unsupported version")
	// ErrCorrupt is returned when a checksum, bound or decode check fails.
	ErrCorrupt = errors.New("segment: corrupt")
	// ErrEncodingMismatch is returned when a typed view is requested for the
	// other encoding.
	ErrEncodingMismatch = errors.New("segment: encoding mismatch")
	// ErrClosed is returned when a closed writer is used.
	ErrClosed = errors.New("segment: writer closed")
)

func checksum(b []byte) uint32 {
	return hash.CRC32C(b)
}

// Compression selects the block codec.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	return compress.Parse(s)
}

// Header describes a segment. It is stored at the beginning of the file.
type Header struct {
	Magic         uint32
	Version       uint32
	Encoding      model.Encoding
	Compression   Compression
	_             [2]byte // Padding
	Dim           uint32
	Count         uint32
	DocsPerBlock  uint32
	BlockCount    uint32
	DocsLength    uint32
	DocsOffset    uint64
	IndexOffset   uint64
	IndexLength   uint32
	IndexChecksum uint32 // CRC32C of the block index
	DocsChecksum  uint32 // CRC32C of the docs bitmap
	Checksum      uint32 // CRC32C of bytes [0:60]
}

// Encode serializes the header and fills in its checksum.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	buf[8] = byte(h.Encoding)
	buf[9] = byte(h.Compression)
	// Padding [10:12]
	binary.LittleEndian.PutUint32(buf[12:], h.Dim)
	binary.LittleEndian.PutUint32(buf[16:], h.Count)
	binary.LittleEndian.PutUint32(buf[20:], h.DocsPerBlock)
	binary.LittleEndian.PutUint32(buf[24:], h.BlockCount)
	binary.LittleEndian.PutUint32(buf[28:], h.DocsLength)
	binary.LittleEndian.PutUint64(buf[32:], h.DocsOffset)
	binary.LittleEndian.PutUint64(buf[40:], h.IndexOffset)
	binary.LittleEndian.PutUint32(buf[48:], h.IndexLength)
	binary.LittleEndian.PutUint32(buf[52:], h.IndexChecksum)
	binary.LittleEndian.PutUint32(buf[56:], h.DocsChecksum)
	h.Checksum = checksum(buf[:60])
	binary.LittleEndian.PutUint32(buf[60:], h.Checksum)
	return buf
}

// DecodeHeader parses and validates a header.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: short header (%d bytes)", ErrCorrupt, len(buf))
	}

	h := &Header{}
	h.Magic = binary.LittleEndian.Uint32(buf[0:])
	if h.Magic != Magic {
		return nil, ErrBadMagic
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:])
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.Checksum = binary.LittleEndian.Uint32(buf[60:])
	if got := checksum(buf[:60]); got != h.Checksum {
		return nil, fmt.Errorf("%w: header checksum %08x, want %08x", ErrCorrupt, got, h.Checksum)
	}

	h.Encoding = model.Encoding(buf[8])
	h.Compression = Compression(buf[9])
	h.Dim = binary.LittleEndian.Uint32(buf[12:])
	h.Count = binary.LittleEndian.Uint32(buf[16:])
	h.DocsPerBlock = binary.LittleEndian.Uint32(buf[20:])
	h.BlockCount = binary.LittleEndian.Uint32(buf[24:])
	h.DocsLength = binary.LittleEndian.Uint32(buf[28:])
	h.DocsOffset = binary.LittleEndian.Uint64(buf[32:])
	h.IndexOffset = binary.LittleEndian.Uint64(buf[40:])
	h.IndexLength = binary.LittleEndian.Uint32(buf[48:])
	h.IndexChecksum = binary.LittleEndian.Uint32(buf[52:])
	h.DocsChecksum = binary.LittleEndian.Uint32(buf[56:])

	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) validate() error {
	switch h.Encoding {
	case model.EncodingFloat32, model.EncodingByte:
	default:
		return fmt.Errorf("%w: unknown encoding %d", ErrCorrupt, h.Encoding)
	}
	switch h.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrCorrupt, h.Compression)
	}
	if h.Dim == 0 {
		return fmt.Errorf("%w: zero dimension", ErrCorrupt)
	}
	if h.DocsPerBlock == 0 {
		return fmt.Errorf("%w: zero docs per block", ErrCorrupt)
	}
	if want := blockCount(h.Count, h.DocsPerBlock); h.BlockCount != want {
		return fmt.Errorf("%w: %d blocks for %d docs, want %d", ErrCorrupt, h.BlockCount, h.Count, want)
	}
	if uint64(h.IndexLength) != uint64(h.BlockCount)*IndexEntrySize {
		return fmt.Errorf("%w: index length %d for %d blocks", ErrCorrupt, h.IndexLength, h.BlockCount)
	}
	return nil
}

// rowBytes is the encoded size of one vector.
func (h *Header) rowBytes() int {
	return int(h.Dim) * h.Encoding.ElementSize()
}

// rowsInBlock returns the number of vectors stored in block b.
func (h *Header) rowsInBlock(b int) int {
	start := b * int(h.DocsPerBlock)
	return min(int(h.DocsPerBlock), int(h.Count)-start)
}

func blockCount(count, perBlock uint32) uint32 {
	return uint32((uint64(count) + uint64(perBlock) - 1) / uint64(perBlock))
}

// blockEntry locates one block inside the file.
type blockEntry struct {
	Offset   uint64
	Length   uint32
	Checksum uint32
}

func encodeIndex(entries []blockEntry) []byte {
	buf := make([]byte, len(entries)*IndexEntrySize)
	for i, e := range entries {
		off := i * IndexEntrySize
		binary.LittleEndian.PutUint64(buf[off:], e.Offset)
		binary.LittleEndian.PutUint32(buf[off+8:], e.Length)
		binary.LittleEndian.PutUint32(buf[off+12:], e.Checksum)
	}
	return buf
}

func decodeIndex(buf []byte, h *Header, size int64) ([]blockEntry, error) {
	entries := make([]blockEntry, h.BlockCount)
	dataStart := h.DocsOffset + uint64(h.DocsLength)
	for i := range entries {
		off := i * IndexEntrySize
		e := blockEntry{
			Offset:   binary.LittleEndian.Uint64(buf[off:]),
			Length:   binary.LittleEndian.Uint32(buf[off+8:]),
			Checksum: binary.LittleEndian.Uint32(buf[off+12:]),
		}
		if e.Offset < dataStart || e.Offset+uint64(e.Length) > h.IndexOffset || e.Offset+uint64(e.Length) > uint64(size) {
			return nil, fmt.Errorf("%w: block %d out of bounds", ErrCorrupt, i)
		}
		if e.Length < compress.HeaderSize {
			return nil, fmt.Errorf("%w: block %d too small", ErrCorrupt, i)
		}
		entries[i] = e
	}
	return entries, nil
}
