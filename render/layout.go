// Package render lays glyphs out and rasterizes them with github.com/gogpu/gg.
//
// Every surface uses one algorithm: glyphs are scaled so their heights match,
// which gives each glyph its own square cell size, then placed left to right
// with a fixed gap and centered on the canvas.
package render

import (
	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/shape"
)

// Placement is one glyph positioned inside a Run.
type Placement struct {
	Char     rune
	Glyph    *typeface.Glyph
	X        float64 // offset from the start of the run
	CellSize float64
	Width    float64
}

// Run is a laid out line of glyphs.
type Run struct {
	Glyphs []Placement
	Width  float64
	Height float64
}

// Layout places the glyphs of text at the given height. Characters without
// a glyph are skipped. The run width is the sum of glyph widths plus one gap
// between neighbours.
func Layout(tf *typeface.Typeface, text string, height, gap float64) Run {
	run := Run{Height: height}
	x := 0.0
	for _, r := range text {
		g := tf.Glyph(r)
		if g == nil || g.Rows() == 0 {
			continue
		}
		if len(run.Glyphs) > 0 {
			x += gap
		}
		cell := height / float64(g.Rows())
		w := cell * float64(g.Cols())
		run.Glyphs = append(run.Glyphs, Placement{
			Char:     r,
			Glyph:    g,
			X:        x,
			CellSize: cell,
			Width:    w,
		})
		x += w
	}
	run.Width = x
	return run
}

// Origin returns the top-left corner that centers the run in a w x h area.
func (r Run) Origin(w, h float64) (x, y float64) {
	return (w - r.Width) / 2, (h - r.Height) / 2
}

// Draw paints the run with its top-left corner at (x, y).
func (r Run) Draw(p shape.Painter, x, y float64) error {
	for _, pl := range r.Glyphs {
		if err := DrawGlyph(p, pl.Glyph, x+pl.X, y, pl.CellSize); err != nil {
			return err
		}
	}
	return nil
}

// DrawGlyph paints every non-empty cell of g, row-major, with (x, y) as the
// glyph's top-left corner.
func DrawGlyph(p shape.Painter, g *typeface.Glyph, x, y, cell float64) error {
	for pos, c := range g.Cells() {
		if c.IsEmpty() {
			continue
		}
		cx := x + float64(pos.Col)*cell
		cy := y + float64(pos.Row)*cell
		if err := shape.Draw(p, c.Shape, cx, cy, cell, c.Rotation, typeface.RGBA(c.Color)); err != nil {
			return err
		}
	}
	return nil
}
