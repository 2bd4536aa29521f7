// Package segment implements an immutable, block-compressed file format for
// one vector field.
//
// A segment stores the vectors of a single field in doc id order together
// with the set of documents that have a vector. The reader side exposes the
// content through the vectorvalues interfaces, so a segment opened from any
// blobstore.Blob can be fed directly to vecstream.NewReader.
//
// # File layout
//
// All integers are little endian.
//
//	+------------------+
//	| Header (64 B)    |  magic "VSEG", version, encoding, compression, dim,
//	|                  |  count, docs per block, block count, section
//	|                  |  offsets, section checksums, header CRC32C
//	+------------------+
//	| Docs             |  roaring bitmap of doc ids with a vector
//	+------------------+
//	| Blocks           |  [uncompressed u32][compressed u32][data]
//	+------------------+
//	| Block index      |  per block: offset u64, length u32, CRC32C u32
//	+------------------+
//
// Vectors are grouped into blocks of DocsPerBlock consecutive ordinals. A
// block is fetched and decoded the first time one of its documents is
// requested, and each view keeps exactly one decoded block.
package segment
