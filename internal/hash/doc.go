// Package hash provides the CRC32-Castagnoli checksums used by the segment
// format.
//
// Header, docs bitmap, block index and every block carry a CRC32C. Go's
// hash/crc32 uses the SSE4.2 and ARM CRC instructions for this polynomial
// when they are available.
//
//	sum := hash.CRC32C(block)
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	sum = h.Sum32()
package hash
