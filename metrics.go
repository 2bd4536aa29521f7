package vecstream

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecstream/model"
)

// MetricsCollector defines an interface for collecting reader metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Readers call the collector synchronously from Next* calls; one collector
// may be shared by many readers, so implementations must be safe for
// concurrent use.
type MetricsCollector interface {
	// RecordRead is called after each accessor call that fetched from the
	// store. err is nil if a vector was returned.
	RecordRead(enc model.Encoding, duration time.Duration, err error)

	// RecordSkip is called when an accessor consumed a document whose
	// encoding did not match.
	RecordSkip(requested model.Encoding)

	// RecordExhausted is called once per reader when the cursor runs out.
	RecordExhausted()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(model.Encoding, time.Duration, error) {}
func (NoopMetricsCollector) RecordSkip(model.Encoding)                       {}
func (NoopMetricsCollector) RecordExhausted()                                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	FloatReads     atomic.Int64
	ByteReads      atomic.Int64
	ReadErrors     atomic.Int64
	ReadTotalNanos atomic.Int64
	Skips          atomic.Int64
	Exhausted      atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(enc model.Encoding, duration time.Duration, err error) {
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	switch enc {
	case model.EncodingFloat32:
		b.FloatReads.Add(1)
	case model.EncodingByte:
		b.ByteReads.Add(1)
	}
}

// RecordSkip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkip(model.Encoding) {
	b.Skips.Add(1)
}

// RecordExhausted implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExhausted() {
	b.Exhausted.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		FloatReads: b.FloatReads.Load(),
		ByteReads:  b.ByteReads.Load(),
		ReadErrors: b.ReadErrors.Load(),
		Skips:      b.Skips.Load(),
		Exhausted:  b.Exhausted.Load(),
	}
	if n := s.FloatReads + s.ByteReads + s.ReadErrors; n > 0 {
		s.ReadAvgNanos = b.ReadTotalNanos.Load() / n
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FloatReads   int64
	ByteReads    int64
	ReadErrors   int64
	ReadAvgNanos int64
	Skips        int64
	Exhausted    int64
}
