package testutil

import (
	"math/rand"
	"sync"
)

// RNG wraps a seeded math/rand source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float32(r.uniform(minVal, maxVal))
	}
}

// FillInt8Range fills dst with values drawn uniformly from [minVal, maxVal),
// truncated toward zero, clamped to [-128, 127] and stored as two's
// complement bytes.
func (r *RNG) FillInt8Range(dst []byte, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		v := max(-128, min(127, int(r.uniform(minVal, maxVal))))
		dst[i] = byte(int8(v))
	}
}

// BinaryValue returns one packed binary vector of 8 bits, in [0, 128].
func (r *RNG) BinaryValue() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return byte(r.rand.Intn(129))
}

func (r *RNG) uniform(minVal, maxVal float64) float64 {
	return minVal + r.rand.Float64()*(maxVal-minVal)
}

// UniformRangeVectors generates num vectors with values in [minVal, maxVal).
// The vectors share a single backing array.
func (r *RNG) UniformRangeVectors(num, dim int, minVal, maxVal float64) [][]float32 {
	data := make([]float32, num*dim)
	vectors := make([][]float32, num)
	for i := range num {
		vectors[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
		r.FillUniformRange(vectors[i], minVal, maxVal)
	}
	return vectors
}

// Int8Vectors generates num byte vectors as FillInt8Range does.
func (r *RNG) Int8Vectors(num, dim int, minVal, maxVal float64) [][]byte {
	vectors := make([][]byte, num)
	for i := range num {
		vectors[i] = make([]byte, dim)
		r.FillInt8Range(vectors[i], minVal, maxVal)
	}
	return vectors
}

// BinaryVectors generates num single-byte binary vectors.
func (r *RNG) BinaryVectors(num int) [][]byte {
	vectors := make([][]byte, num)
	for i := range num {
		vectors[i] = []byte{r.BinaryValue()}
	}
	return vectors
}
