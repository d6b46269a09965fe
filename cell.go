package typeface

import "github.com/modular-tools/typeface/shape"

// Cell is one grid position of a glyph.
type Cell struct {
	Shape    shape.Kind
	Rotation int
	Color    string
}

// EmptyCell returns the default cell: no shape, rotation 0, black.
func EmptyCell() Cell {
	return Cell{Shape: shape.Empty, Color: DefaultColor}
}

// NewCell returns a cell holding k. The rotation is normalized against k's
// cardinality and a malformed color falls back to DefaultColor.
func NewCell(k shape.Kind, rot int, color string) Cell {
	c, err := NormalizeColor(color)
	if err != nil {
		c = DefaultColor
	}
	return Cell{Shape: k, Rotation: k.Normalize(rot), Color: c}
}

// IsEmpty reports whether the cell draws nothing.
func (c Cell) IsEmpty() bool {
	return c.Shape == shape.Empty
}

// WithShape returns c holding k. Changing the shape resets the rotation.
func (c Cell) WithShape(k shape.Kind) Cell {
	if k != c.Shape {
		c.Rotation = 0
	}
	c.Shape = k
	return c
}

// Rotated returns c turned to the next rotation of its shape.
func (c Cell) Rotated() Cell {
	c.Rotation = c.Shape.Next(c.Rotation)
	return c
}

// normalize enforces the rotation invariant and the canonical color form.
func (c Cell) normalize() Cell {
	return NewCell(c.Shape, c.Rotation, c.Color)
}
