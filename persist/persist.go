// Package persist converts typefaces to and from their JSON document form.
//
// A document maps each character to its glyph:
//
//	{
//	  "A": {
//	    "grid": [[{"shape": "line", "rotation": 0, "color": "#000000"}, ...], ...],
//	    "cols": 4,
//	    "rows": 4
//	  },
//	  ...
//	}
//
// Decoding is all or nothing: any malformed glyph rejects the whole document
// with ErrMalformed and no typeface is returned.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/shape"
)

// ErrMalformed is returned for documents that do not describe a valid
// typeface.
var ErrMalformed = errors.New("persist: malformed typeface document")

type cellDoc struct {
	Shape    string `json:"shape"`
	Rotation int    `json:"rotation"`
	Color    string `json:"color"`
}

type glyphDoc struct {
	Grid [][]cellDoc `json:"grid"`
	Cols int         `json:"cols"`
	Rows int         `json:"rows"`
}

func toDoc(tf *typeface.Typeface) map[string]glyphDoc {
	doc := make(map[string]glyphDoc, len(typeface.Alphabet))
	for _, r := range typeface.Alphabet {
		g := tf.Glyph(r)
		if g == nil {
			continue
		}
		gd := glyphDoc{Cols: g.Cols(), Rows: g.Rows(), Grid: make([][]cellDoc, 0, g.Rows())}
		for _, row := range g.Grid() {
			cells := make([]cellDoc, len(row))
			for i, c := range row {
				cells[i] = cellDoc{Shape: c.Shape.String(), Rotation: c.Rotation, Color: c.Color}
			}
			gd.Grid = append(gd.Grid, cells)
		}
		doc[string(r)] = gd
	}
	return doc
}

func fromDoc(doc map[string]glyphDoc) (*typeface.Typeface, error) {
	var errs []error
	glyphs := make(map[rune]*typeface.Glyph, len(doc))
	for key, gd := range doc {
		r, size := utf8.DecodeRuneInString(key)
		if size != len(key) || !typeface.InAlphabet(r) {
			errs = append(errs, fmt.Errorf("unexpected key %q", key))
			continue
		}
		g, err := glyphFromDoc(gd)
		if err != nil {
			errs = append(errs, fmt.Errorf("glyph %q: %w", key, err))
			continue
		}
		glyphs[r] = g
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return typeface.FromGlyphs(glyphs)
}

func glyphFromDoc(gd glyphDoc) (*typeface.Glyph, error) {
	if gd.Rows != len(gd.Grid) {
		return nil, fmt.Errorf("rows is %d but grid has %d rows", gd.Rows, len(gd.Grid))
	}
	grid := make([][]typeface.Cell, len(gd.Grid))
	for r, row := range gd.Grid {
		if len(row) != gd.Cols {
			return nil, fmt.Errorf("cols is %d but row %d has %d cells", gd.Cols, r, len(row))
		}
		grid[r] = make([]typeface.Cell, len(row))
		for c, cd := range row {
			k, ok := shape.Parse(cd.Shape)
			if !ok {
				return nil, fmt.Errorf("cell (%d, %d): unknown shape %q", r, c, cd.Shape)
			}
			color := cd.Color
			if color == "" {
				color = typeface.DefaultColor
			}
			color, err := typeface.NormalizeColor(color)
			if err != nil {
				return nil, fmt.Errorf("cell (%d, %d): %w", r, c, err)
			}
			// Out of range rotations are normalized, not rejected.
			grid[r][c] = typeface.NewCell(k, cd.Rotation, color)
		}
	}
	return typeface.GlyphFromGrid(grid)
}

// Marshal returns the indented JSON document of tf.
func Marshal(tf *typeface.Typeface) ([]byte, error) {
	return json.MarshalIndent(toDoc(tf), "", "  ")
}

// Unmarshal decodes a JSON document. On failure the error wraps ErrMalformed
// and the returned typeface is nil.
func Unmarshal(data []byte) (*typeface.Typeface, error) {
	var doc map[string]glyphDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(err)
	}
	if dec.More() {
		return nil, malformed(errors.New("trailing data after document"))
	}
	if doc == nil {
		return nil, malformed(errors.New("document is not an object"))
	}
	tf, err := fromDoc(doc)
	if err != nil {
		return nil, malformed(err)
	}
	return tf, nil
}

func malformed(err error) error {
	typeface.Logger().Warn("persist: rejected document", "err", err)
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

// Encode writes the JSON document of tf to w.
func Encode(w io.Writer, tf *typeface.Typeface) error {
	data, err := Marshal(tf)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Decode reads one JSON document from r.
func Decode(r io.Reader) (*typeface.Typeface, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("persist: read document: %w", err)
	}
	return Unmarshal(data)
}

// Document embeds a typeface in other JSON values, such as community font
// records, using the same document form.
type Document struct {
	*typeface.Typeface
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Typeface == nil {
		return []byte("null"), nil
	}
	return json.Marshal(toDoc(d.Typeface))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		d.Typeface = nil
		return nil
	}
	tf, err := Unmarshal(data)
	if err != nil {
		return err
	}
	d.Typeface = tf
	return nil
}
