package typeface

import "strings"

// Class is the typographic proportion class of a character.
type Class uint8

const (
	ClassXHeight Class = iota
	ClassAscender
	ClassDescender
	ClassCap
)

func (c Class) String() string {
	switch c {
	case ClassAscender:
		return "ascender"
	case ClassDescender:
		return "descender"
	case ClassCap:
		return "cap"
	default:
		return "xheight"
	}
}

const (
	ascenders  = "bdfhkl"
	descenders = "gjpqy"
	xHeights   = "aceimnorstuvwxz"
)

// Classify returns r's proportion class. Characters in none of the tables
// are x-height.
func Classify(r rune) Class {
	switch {
	case strings.ContainsRune(ascenders, r):
		return ClassAscender
	case strings.ContainsRune(descenders, r):
		return ClassDescender
	case strings.ContainsRune(xHeights, r):
		return ClassXHeight
	case strings.ContainsRune(Alphabet, r):
		return ClassCap
	default:
		return ClassXHeight
	}
}
