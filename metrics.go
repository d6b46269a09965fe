package typeface

import (
	"errors"
	"fmt"
)

// Metric bounds.
const (
	MinCols, MaxCols           = 2, 8
	MinRows, MaxRows           = 2, 8
	MinXHeight, MaxXHeight     = 1, 6
	MinAscender, MaxAscender   = 0, 4
	MinDescender, MaxDescender = 0, 4
)

// Metrics are the global grid settings shared by every glyph.
type Metrics struct {
	// Cols is the column count of every glyph.
	Cols int
	// Rows is the row count of every glyph while Proportions is off.
	Rows int
	// XHeight, Ascender and Descender drive per-class heights while
	// Proportions is on.
	XHeight   int
	Ascender  int
	Descender int

	Proportions bool
}

// DefaultMetrics returns a 4x4 grid with proportions off and an x-height of 2
// with one row of ascender and descender.
func DefaultMetrics() Metrics {
	return Metrics{
		Cols:      4,
		Rows:      4,
		XHeight:   2,
		Ascender:  1,
		Descender: 1,
	}
}

// Height returns the row count of r's glyph.
func (m Metrics) Height(r rune) int {
	if !m.Proportions {
		return m.Rows
	}
	switch Classify(r) {
	case ClassAscender, ClassCap:
		return m.XHeight + m.Ascender
	case ClassDescender:
		return m.XHeight + m.Descender
	default:
		return m.XHeight
	}
}

// Validate reports every field outside its bounds.
func (m Metrics) Validate() error {
	var errs []error
	check := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%w: %s %d outside [%d, %d]", ErrInvalid, name, v, lo, hi))
		}
	}
	check("cols", m.Cols, MinCols, MaxCols)
	check("rows", m.Rows, MinRows, MaxRows)
	check("x-height", m.XHeight, MinXHeight, MaxXHeight)
	check("ascender", m.Ascender, MinAscender, MaxAscender)
	check("descender", m.Descender, MinDescender, MaxDescender)
	return errors.Join(errs...)
}

// Clamp returns m with every field forced into its bounds.
func (m Metrics) Clamp() Metrics {
	m.Cols = min(max(m.Cols, MinCols), MaxCols)
	m.Rows = min(max(m.Rows, MinRows), MaxRows)
	m.XHeight = min(max(m.XHeight, MinXHeight), MaxXHeight)
	m.Ascender = min(max(m.Ascender, MinAscender), MaxAscender)
	m.Descender = min(max(m.Descender, MinDescender), MaxDescender)
	return m
}
