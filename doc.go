// Package typeface models a modular typeface: one grid glyph per character of
// a fixed alphabet, where every grid cell holds a stroke primitive from the
// shape package.
//
// # Overview
//
// A Typeface always holds exactly one Glyph for each character of Alphabet.
// Glyphs share a global column count; their row count comes from the global
// Metrics, either a single uniform row count or, when proportions are
// enabled, a per-character height derived from the character's Class.
//
//	m := typeface.DefaultMetrics()
//	tf := typeface.New(m)
//
//	cell := typeface.NewCell(shape.Quarter, 1, "#000000")
//	if _, err := tf.SetCell('A', 0, 0, cell); err != nil {
//	    return err
//	}
//
//	m.Proportions = true
//	tf.Reconcile(m) // resize every glyph to its proportional height
//
// # Invariants
//
//   - Every row of a Glyph holds exactly Cols cells.
//   - A cell's rotation is always a valid index for its shape; invalid
//     rotations are normalized to 0 rather than rejected.
//   - Cell access outside a glyph's bounds fails with ErrOutOfRange and never
//     wraps.
//
// Mutations never render. Callers group mutations, then redraw and commit a
// history snapshot once.
//
// # Subpackages
//
//   - shape: primitive registry and cell geometry
//   - render: layout and raster surfaces built on github.com/gogpu/gg
//   - history: bounded undo stack of typeface snapshots
//   - persist: JSON encoding and file helpers
//   - community: shared font records over a key-value store
//   - editor: interactive session state
package typeface
