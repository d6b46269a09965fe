package typeface

import (
	"errors"
	"fmt"
)

// Typeface maps every Alphabet character to its glyph.
// A Typeface is not safe for concurrent use.
type Typeface struct {
	glyphs map[rune]*Glyph
}

// New returns a typeface of empty glyphs sized by m.
func New(m Metrics) *Typeface {
	tf := &Typeface{glyphs: make(map[rune]*Glyph, len(Alphabet))}
	for _, r := range Alphabet {
		tf.glyphs[r] = NewGlyph(m.Cols, m.Height(r))
	}
	return tf
}

// FromGlyphs builds a typeface from decoded glyphs. Every Alphabet character
// must be present; characters outside the alphabet are rejected.
func FromGlyphs(glyphs map[rune]*Glyph) (*Typeface, error) {
	var errs []error
	for r := range glyphs {
		if !InAlphabet(r) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownChar, r))
		}
	}
	tf := &Typeface{glyphs: make(map[rune]*Glyph, len(Alphabet))}
	for _, r := range Alphabet {
		g, ok := glyphs[r]
		if !ok || g == nil {
			errs = append(errs, fmt.Errorf("%w: missing glyph %q", ErrInvalid, r))
			continue
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("glyph %q: %w", r, err))
			continue
		}
		tf.glyphs[r] = g.Clone()
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return tf, nil
}

// Glyph returns r's glyph, or nil when r is outside the alphabet.
func (tf *Typeface) Glyph(r rune) *Glyph {
	return tf.glyphs[r]
}

// Has reports whether r has a glyph.
func (tf *Typeface) Has(r rune) bool {
	_, ok := tf.glyphs[r]
	return ok
}

func (tf *Typeface) lookup(r rune) (*Glyph, error) {
	g, ok := tf.glyphs[r]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChar, r)
	}
	return g, nil
}

// Resize resizes r's glyph, preserving the top-left overlap.
func (tf *Typeface) Resize(r rune, cols, rows int) error {
	g, err := tf.lookup(r)
	if err != nil {
		return err
	}
	g.Resize(cols, rows)
	return nil
}

// SetCell stores cell at (row, col) of r's glyph and reports whether the
// glyph changed.
func (tf *Typeface) SetCell(r rune, row, col int, cell Cell) (bool, error) {
	g, err := tf.lookup(r)
	if err != nil {
		return false, err
	}
	changed, err := g.SetCell(row, col, cell)
	if err != nil {
		return false, fmt.Errorf("glyph %q: %w", r, err)
	}
	return changed, nil
}

// Clear empties r's glyph.
func (tf *Typeface) Clear(r rune) error {
	g, err := tf.lookup(r)
	if err != nil {
		return err
	}
	g.Clear()
	return nil
}

// Reconcile resizes every glyph to m's column count and r's height under m.
// Existing content is kept top-aligned. It returns the number of glyphs whose
// size changed.
func (tf *Typeface) Reconcile(m Metrics) int {
	n := 0
	for _, r := range Alphabet {
		g := tf.glyphs[r]
		cols, rows := m.Cols, m.Height(r)
		if g.Cols() == cols && g.Rows() == rows {
			continue
		}
		g.Resize(cols, rows)
		n++
	}
	if n > 0 {
		Logger().Debug("typeface: reconciled glyph sizes", "resized", n, "cols", m.Cols, "proportions", m.Proportions)
	}
	return n
}

// SetCols resizes every glyph to n columns, keeping each glyph's own row
// count. It returns the number of glyphs whose width changed.
func (tf *Typeface) SetCols(n int) int {
	n = clampDim(n)
	changed := 0
	for _, r := range Alphabet {
		g := tf.glyphs[r]
		if g.Cols() == n {
			continue
		}
		g.Resize(n, g.Rows())
		changed++
	}
	return changed
}

// Clone returns a deep copy of tf.
func (tf *Typeface) Clone() *Typeface {
	c := &Typeface{glyphs: make(map[rune]*Glyph, len(tf.glyphs))}
	for r, g := range tf.glyphs {
		c.glyphs[r] = g.Clone()
	}
	return c
}

// Equal reports whether tf and o hold identical glyphs.
func (tf *Typeface) Equal(o *Typeface) bool {
	if tf == nil || o == nil {
		return tf == o
	}
	if len(tf.glyphs) != len(o.glyphs) {
		return false
	}
	for r, g := range tf.glyphs {
		if !g.Equal(o.glyphs[r]) {
			return false
		}
	}
	return true
}

// Validate checks that every alphabet character has a consistent glyph.
func (tf *Typeface) Validate() error {
	var errs []error
	for _, r := range Alphabet {
		g, ok := tf.glyphs[r]
		if !ok || g == nil {
			errs = append(errs, fmt.Errorf("%w: missing glyph %q", ErrInvalid, r))
			continue
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("glyph %q: %w", r, err))
		}
	}
	return errors.Join(errs...)
}

// Used returns the alphabet characters whose glyph holds at least one shape.
func (tf *Typeface) Used() []rune {
	var out []rune
	for _, r := range Alphabet {
		if !tf.glyphs[r].IsEmpty() {
			out = append(out, r)
		}
	}
	return out
}
