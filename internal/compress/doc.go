// Package compress implements the block codec used by vector segments.
//
// Each encoded block carries an 8-byte header:
//
//	[uncompressed size uint32][compressed size uint32][data...]
//
// A compressed size of 0 means the data is stored raw, which happens when
// compression is disabled or does not save at least 10%.
package compress
