package segment

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/vecstream/resource"
)

type options struct {
	// writer
	compression  Compression
	docsPerBlock int
	concurrency  int

	// reader
	verifyChecksum bool
	rc             *resource.Controller

	logger *slog.Logger
}

// Option configures a Writer or an opened Segment. Options that do not apply
// to the receiving side are ignored.
type Option func(*options)

// WithCompression sets the block codec used by a Writer. Default: none.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithDocsPerBlock sets the number of vectors per block. Default: 1024.
func WithDocsPerBlock(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.docsPerBlock = n
		}
	}
}

// WithConcurrency bounds the number of blocks compressed in parallel.
// Default: GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithVerifyChecksum toggles the CRC32C check of every fetched block.
// Header, docs and index checksums are always verified. Default: true.
func WithVerifyChecksum(verify bool) Option {
	return func(o *options) { o.verifyChecksum = verify }
}

// WithResourceController throttles block reads and accounts decoded block
// memory against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		compression:    CompressionNone,
		docsPerBlock:   DefaultDocsPerBlock,
		concurrency:    runtime.GOMAXPROCS(0),
		verifyChecksum: true,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
