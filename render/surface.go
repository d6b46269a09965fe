package render

import (
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/modular-tools/typeface"
)

// upper maps text onto the alphabet. A Caser keeps state, so one is made
// per call.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Preview renders text as a running line centered on a fixed canvas.
// Text is upper-cased first so lower-case input maps onto the alphabet.
func Preview(tf *typeface.Typeface, text string, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		width:       800,
		height:      120,
		glyphHeight: 60,
		gap:         8,
		background:  gg.Transparent,
	}, opts)

	run := Layout(tf, upper(text), cfg.px(cfg.glyphHeight), cfg.px(cfg.gap))
	dc := cfg.canvas(cfg.px(float64(cfg.width)), cfg.px(float64(cfg.height)))
	x, y := run.Origin(float64(dc.Width()), float64(dc.Height()))
	if err := run.Draw(dc, x, y); err != nil {
		return nil, err
	}
	return dc, nil
}

// Alphabet renders the A-Z run for export: a canvas sized to the run plus
// padding, white background and per-cell colors.
func Alphabet(tf *typeface.Typeface, opts ...Option) (*gg.Context, error) {
	return Text(tf, typeface.Letters, opts...)
}

// Text renders text on a canvas sized to fit it, like Alphabet.
func Text(tf *typeface.Typeface, text string, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		glyphHeight: 80,
		gap:         10,
		padding:     40,
		background:  gg.White,
	}, opts)

	run := Layout(tf, upper(text), cfg.px(cfg.glyphHeight), cfg.px(cfg.gap))
	pad := cfg.px(cfg.padding)
	dc := cfg.canvas(run.Width+2*pad, run.Height+2*pad)
	x, y := run.Origin(float64(dc.Width()), float64(dc.Height()))
	if err := run.Draw(dc, x, y); err != nil {
		return nil, err
	}
	typeface.Logger().Debug("render: text image", "glyphs", len(run.Glyphs), "width", dc.Width(), "height", dc.Height())
	return dc, nil
}

// Thumbnail renders r's glyph fitted into a square canvas.
func Thumbnail(tf *typeface.Typeface, r rune, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		width:      80,
		height:     80,
		background: gg.Transparent,
	}, opts)
	dc := cfg.canvas(cfg.px(float64(cfg.width)), cfg.px(float64(cfg.height)))
	g := tf.Glyph(r)
	if g == nil {
		return dc, nil
	}
	geo := NewGeometry(float64(dc.Width()), float64(dc.Height()), g.Cols(), g.Rows())
	if err := DrawGlyph(dc, g, geo.OffsetX, geo.OffsetY, geo.CellSize); err != nil {
		return nil, err
	}
	return dc, nil
}

// EncodePNG writes the canvas as a PNG image.
func EncodePNG(w io.Writer, dc *gg.Context) error {
	return dc.EncodePNG(w)
}

// WritePNG saves the canvas as a PNG file.
func WritePNG(path string, dc *gg.Context) error {
	if err := dc.SavePNG(path); err != nil {
		return err
	}
	typeface.Logger().Info("render: wrote image", "path", path, "width", dc.Width(), "height", dc.Height())
	return nil
}
