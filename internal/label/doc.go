// Package label holds the shipping label record and the pure steps that turn a
// caller supplied record into its canonical form: the ZIP verification digit,
// field normalization, and the fixed-width payload encoded into the Data Matrix
// symbol.
//
// A Label is mutated exactly once by Prepare and is read-only afterwards.
// Payload never mutates its input.
package label
