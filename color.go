package typeface

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// DefaultColor is the stroke color of a fresh cell.
const DefaultColor = "#000000"

// NormalizeColor returns the canonical lower-case "#rrggbb" form of a
// "#rgb" or "#rrggbb" color. The leading '#' is optional.
func NormalizeColor(s string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", fmt.Errorf("%w: color %q", ErrInvalid, s)
	}
	for i := 0; i < len(h); i++ {
		if !isHexDigit(h[i]) {
			return "", fmt.Errorf("%w: color %q", ErrInvalid, s)
		}
	}
	return "#" + strings.ToLower(h), nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// RGBA converts a cell color to a gg color. Malformed colors yield black.
func RGBA(s string) gg.RGBA {
	c, err := NormalizeColor(s)
	if err != nil {
		return gg.Black
	}
	return gg.Hex(c)
}
