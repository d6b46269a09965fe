package render

import "github.com/gogpu/gg"

// Option configures a surface.
//
// Example:
//
//	// 2x preview on white
//	dc, err := render.Preview(tf, "hello", render.WithScale(2), render.WithBackground(gg.White))
type Option func(*config)

// config holds the settings of one surface. Lengths are in CSS-like logical
// pixels and multiplied by scale when the canvas is allocated.
type config struct {
	width, height int
	glyphHeight   float64
	gap           float64
	padding       float64
	scale         float64
	background    gg.RGBA
}

func newConfig(base config, opts []Option) config {
	for _, opt := range opts {
		opt(&base)
	}
	if base.scale <= 0 {
		base.scale = 1
	}
	return base
}

// px converts a logical length to canvas pixels.
func (c config) px(v float64) float64 {
	return v * c.scale
}

// canvas allocates a canvas of the given pixel size and paints the
// background.
func (c config) canvas(width, height float64) *gg.Context {
	w := max(1, int(width+0.5))
	h := max(1, int(height+0.5))
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(c.background)
	return dc
}

// WithSize sets the logical canvas size of fixed-size surfaces.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithGlyphHeight sets the pixel height every glyph is scaled to.
func WithGlyphHeight(h float64) Option {
	return func(c *config) {
		c.glyphHeight = h
	}
}

// WithGap sets the horizontal space between glyphs.
func WithGap(gap float64) Option {
	return func(c *config) {
		c.gap = gap
	}
}

// WithPadding sets the margin around exported images.
func WithPadding(p float64) Option {
	return func(c *config) {
		c.padding = p
	}
}

// WithBackground sets the color the canvas is cleared to.
func WithBackground(col gg.RGBA) Option {
	return func(c *config) {
		c.background = col
	}
}

// WithScale sets the device pixel ratio.
func WithScale(s float64) Option {
	return func(c *config) {
		c.scale = s
	}
}
