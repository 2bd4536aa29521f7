// Package testutil generates deterministic random vectors for tests and for
// the vecseg data generator.
//
//	rng := testutil.NewRNG(seed)
//	floats := rng.UniformRangeVectors(1000, 128, -2, 2)
//	bytes := rng.Int8Vectors(1000, 128, -2, 2)
//	bits := rng.BinaryVectors(1000)
package testutil
