// Package conv provides checked integer conversions for values that end up
// in, or come from, fixed-width fields of the segment format.
//
// Conversions that are safe by construction (loop indices, values already
// bounded by a header check) use plain casts instead.
package conv
