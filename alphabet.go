package typeface

import "strings"

// Alphabet lists the characters every typeface defines, in display order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Letters is the A-Z run used for image export.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// InAlphabet reports whether r has a glyph.
func InAlphabet(r rune) bool {
	return strings.ContainsRune(Alphabet, r)
}

// Next returns the alphabet character after r, wrapping around. Characters
// outside the alphabet step to the first one.
func Next(r rune) rune {
	return step(r, 1)
}

// Prev returns the alphabet character before r, wrapping around.
func Prev(r rune) rune {
	return step(r, -1)
}

func step(r rune, d int) rune {
	chars := []rune(Alphabet)
	i := strings.IndexRune(Alphabet, r)
	if i < 0 {
		return chars[0]
	}
	n := len(chars)
	return chars[((i+d)%n+n)%n]
}
