// Package shape defines the closed set of stroke primitives a glyph cell can
// hold and the geometry each one produces inside a square cell.
//
// Every primitive is described once in its unrotated form. Rotations are
// quarter turns about the cell center, clockwise on screen, so rotation index
// r always means an orientation of r*90 degrees.
package shape

import "strings"

// Kind identifies a primitive.
type Kind uint8

const (
	// Empty draws nothing.
	Empty Kind = iota
	// Line is a bar spanning the full cell width, flush with the top edge.
	Line
	// Quarter is a quarter-turn arc centered on the bottom-right corner.
	Quarter
	// Half is a half-turn arc over the bottom-edge midpoint.
	Half
	// Circle is a full circle inscribed in the cell.
	Circle
	// Diagonal is a band running from the top-left to the bottom-right corner.
	Diagonal
)

// StrokeRatio is the stroke width as a fraction of the cell edge.
const StrokeRatio = 0.12

var kindIDs = [...]string{
	Empty:    "empty",
	Line:     "line",
	Quarter:  "quarter",
	Half:     "half",
	Circle:   "circle",
	Diagonal: "diagonal",
}

var kindNames = [...]string{
	Empty:    "Empty",
	Line:     "Line",
	Quarter:  "1/4 Circle",
	Half:     "1/2 Circle",
	Circle:   "Circle",
	Diagonal: "Diagonal",
}

// Kinds returns every primitive, Empty first, in menu order.
func Kinds() []Kind {
	return []Kind{Empty, Line, Quarter, Half, Circle, Diagonal}
}

// Parse maps a persisted identifier to its Kind. The second result reports
// whether the identifier was known; unknown identifiers map to Empty.
func Parse(id string) (Kind, bool) {
	id = strings.TrimSpace(id)
	for k, s := range kindIDs {
		if s == id {
			return Kind(k), true
		}
	}
	return Empty, false
}

// String returns the persisted identifier of k.
func (k Kind) String() string {
	if int(k) < len(kindIDs) {
		return kindIDs[k]
	}
	return kindIDs[Empty]
}

// Name returns a human readable label.
func (k Kind) Name() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Empty]
}

// Rotations returns the number of visually distinct rotations of k.
func (k Kind) Rotations() int {
	switch k {
	case Line, Quarter, Half, Diagonal:
		return 4
	default:
		return 1
	}
}

// Normalize returns rot when it is a valid rotation index for k and 0
// otherwise.
func (k Kind) Normalize(rot int) int {
	if rot < 0 || rot >= k.Rotations() {
		return 0
	}
	return rot
}

// Next returns the rotation that follows rot, wrapping at the cardinality.
func (k Kind) Next(rot int) int {
	return (k.Normalize(rot) + 1) % k.Rotations()
}
