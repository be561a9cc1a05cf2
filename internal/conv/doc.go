// Package conv provides checked integer conversions.
//
// Binary record files carry no header, so every count and byte size is
// computed from caller-supplied shapes; these helpers keep that arithmetic
// from silently wrapping.
package conv
