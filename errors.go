package typeface

import "errors"

var (
	// ErrOutOfRange is returned when a cell position lies outside a glyph.
	ErrOutOfRange = errors.New("typeface: cell out of range")

	// ErrUnknownChar is returned for characters outside Alphabet.
	ErrUnknownChar = errors.New("typeface: character not in alphabet")

	// ErrInvalid is returned when a glyph, typeface or metrics value breaks
	// one of its invariants.
	ErrInvalid = errors.New("typeface: invalid value")
)
