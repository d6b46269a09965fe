package typeface

import (
	"errors"
	"testing"

	"github.com/modular-tools/typeface/shape"
)

// fill places a distinct cell at every position of g.
func fill(t *testing.T, g *Glyph) {
	t.Helper()
	kinds := []shape.Kind{shape.Line, shape.Quarter, shape.Half, shape.Circle, shape.Diagonal}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			k := kinds[(r*g.Cols()+c)%len(kinds)]
			if _, err := g.SetCell(r, c, NewCell(k, r+c, "#112233")); err != nil {
				t.Fatalf("SetCell(%d, %d) error = %v", r, c, err)
			}
		}
	}
}

func TestNewGlyph(t *testing.T) {
	g := NewGlyph(3, 5)
	if g.Cols() != 3 || g.Rows() != 5 {
		t.Fatalf("NewGlyph(3, 5) = %dx%d", g.Cols(), g.Rows())
	}
	for pos, cell := range g.Cells() {
		if cell != EmptyCell() {
			t.Errorf("cell %v = %+v, want empty", pos, cell)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestGlyph_ResizePreservesOverlap(t *testing.T) {
	for oldCols := MinCols; oldCols <= MaxCols; oldCols++ {
		for oldRows := MinRows; oldRows <= MaxRows; oldRows++ {
			orig := NewGlyph(oldCols, oldRows)
			fill(t, orig)
			for _, dims := range [][2]int{{2, 2}, {8, 8}, {oldCols, 8}, {8, oldRows}, {3, 5}} {
				g := orig.Clone()
				g.Resize(dims[0], dims[1])
				if g.Cols() != dims[0] || g.Rows() != dims[1] {
					t.Fatalf("Resize(%d, %d) gave %dx%d", dims[0], dims[1], g.Cols(), g.Rows())
				}
				if err := g.Validate(); err != nil {
					t.Fatalf("Validate() after resize = %v", err)
				}
				for pos, cell := range g.Cells() {
					want := EmptyCell()
					if pos.Row < oldRows && pos.Col < oldCols {
						want, _ = orig.Cell(pos.Row, pos.Col)
					}
					if cell != want {
						t.Errorf("%dx%d -> %v: cell %v = %+v, want %+v",
							oldCols, oldRows, dims, pos, cell, want)
					}
				}
			}
		}
	}
}

func TestGlyph_ResizeIdempotent(t *testing.T) {
	g := NewGlyph(4, 4)
	fill(t, g)
	want := g.Clone()
	g.Resize(4, 4)
	if !g.Equal(want) {
		t.Error("Resize to the same size changed the glyph")
	}
}

func TestGlyph_SetCellOutOfRange(t *testing.T) {
	g := NewGlyph(4, 3)
	tests := []struct{ row, col int }{
		{-1, 0}, {0, -1}, {3, 0}, {0, 4}, {10, 10},
	}
	for _, tt := range tests {
		_, err := g.SetCell(tt.row, tt.col, NewCell(shape.Line, 0, DefaultColor))
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetCell(%d, %d) error = %v, want ErrOutOfRange", tt.row, tt.col, err)
		}
		if _, err := g.Cell(tt.row, tt.col); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Cell(%d, %d) error = %v, want ErrOutOfRange", tt.row, tt.col, err)
		}
	}
	if !g.IsEmpty() {
		t.Error("rejected writes modified the glyph")
	}
}

func TestGlyph_SetCellNormalizesRotation(t *testing.T) {
	g := NewGlyph(4, 4)
	if _, err := g.SetCell(0, 0, Cell{Shape: shape.Circle, Rotation: 1, Color: "#000"}); err != nil {
		t.Fatal(err)
	}
	got, _ := g.Cell(0, 0)
	if got.Rotation != 0 {
		t.Errorf("circle rotation = %d, want 0", got.Rotation)
	}
	if got.Color != "#000000" {
		t.Errorf("color = %q, want #000000", got.Color)
	}
	for rot := 0; rot < 4; rot++ {
		if _, err := g.SetCell(1, 1, Cell{Shape: shape.Line, Rotation: rot}); err != nil {
			t.Fatal(err)
		}
		got, _ := g.Cell(1, 1)
		if got.Rotation != rot {
			t.Errorf("line rotation = %d, want %d", got.Rotation, rot)
		}
	}
}

func TestGlyph_SetCellReportsChange(t *testing.T) {
	g := NewGlyph(2, 2)
	cell := NewCell(shape.Half, 2, "#ff0000")
	if changed, _ := g.SetCell(0, 1, cell); !changed {
		t.Error("first SetCell reported no change")
	}
	if changed, _ := g.SetCell(0, 1, cell); changed {
		t.Error("repeated SetCell reported a change")
	}
}

func TestGlyph_Clear(t *testing.T) {
	g := NewGlyph(5, 3)
	fill(t, g)
	g.Clear()
	if g.Cols() != 5 || g.Rows() != 3 {
		t.Errorf("Clear() changed size to %dx%d", g.Cols(), g.Rows())
	}
	if !g.IsEmpty() {
		t.Error("Clear() left shapes behind")
	}
}

func TestGlyph_CloneIsDeep(t *testing.T) {
	g := NewGlyph(2, 2)
	c := g.Clone()
	if _, err := c.SetCell(0, 0, NewCell(shape.Line, 0, DefaultColor)); err != nil {
		t.Fatal(err)
	}
	if !g.IsEmpty() {
		t.Error("mutating the clone changed the original")
	}
}

func TestGlyphFromGrid(t *testing.T) {
	if _, err := GlyphFromGrid(nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("GlyphFromGrid(nil) error = %v, want ErrInvalid", err)
	}
	ragged := [][]Cell{{EmptyCell(), EmptyCell()}, {EmptyCell()}}
	if _, err := GlyphFromGrid(ragged); !errors.Is(err, ErrInvalid) {
		t.Errorf("GlyphFromGrid(ragged) error = %v, want ErrInvalid", err)
	}
	g, err := GlyphFromGrid([][]Cell{{{Shape: shape.Circle, Rotation: 3, Color: "#abc"}}})
	if err != nil {
		t.Fatalf("GlyphFromGrid() error = %v", err)
	}
	if got, _ := g.Cell(0, 0); got.Rotation != 0 || got.Color != "#aabbcc" {
		t.Errorf("cell = %+v, want normalized", got)
	}
}
