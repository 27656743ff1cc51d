// Package serial implements the checkpoint stream every registrable type is
// written to and rebuilt from.
//
// A stream is a flat sequence of space separated tokens. A polymorphic value
// is written as its class name followed by one block per class layer, inner
// layer first, each block prefixed by that layer's format version:
//
//	PerturbDistance 1 ... 228 0 -1
//	^name           ^perturb layer ^distance layer
//
// Strings are length-prefixed so they may contain whitespace. Floats use the
// shortest representation that parses back to the identical bit pattern, so
// a value written and read back reproduces the same arithmetic.
//
// Both [Writer] and [Reader] carry a sticky error: after the first failure
// every further call is a no-op and Err reports the original cause. Readers
// of a layer therefore call the accessors unconditionally and check Err once.
package serial
