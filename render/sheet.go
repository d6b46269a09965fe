package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/modular-tools/typeface"
)

// Contact sheet layout, in logical pixels.
const (
	sheetColumns = 6
	sheetCard    = 80
	sheetHeader  = 18
	sheetGap     = 10
	sheetLabel   = 12
)

var (
	labelOnce   sync.Once
	labelSource *text.FontSource
	labelErr    error
)

// labelFont returns the face used for card labels.
func labelFont(size float64) (text.Face, error) {
	labelOnce.Do(func() {
		labelSource, labelErr = text.NewFontSource(goregular.TTF)
	})
	if labelErr != nil {
		return nil, fmt.Errorf("render: label font: %w", labelErr)
	}
	return labelSource.Face(size), nil
}

// Sheet renders the whole alphabet as labelled cards, six per row. Each card
// shows the character, a dot that is filled once the glyph holds a shape and
// the glyph fitted into the card. The card of active is outlined.
func Sheet(tf *typeface.Typeface, active rune, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		padding:    20,
		gap:        sheetGap,
		background: gg.White,
	}, opts)

	chars := []rune(typeface.Alphabet)
	rows := (len(chars) + sheetColumns - 1) / sheetColumns
	cardW := cfg.px(sheetCard)
	cardH := cfg.px(sheetCard + sheetHeader)
	gap := cfg.px(cfg.gap)
	pad := cfg.px(cfg.padding)
	dc := cfg.canvas(
		2*pad+float64(sheetColumns)*cardW+float64(sheetColumns-1)*gap,
		2*pad+float64(rows)*cardH+float64(rows-1)*gap,
	)

	face, err := labelFont(cfg.px(sheetLabel))
	if err != nil {
		return nil, err
	}
	dc.SetFont(face)

	for i, r := range chars {
		x := pad + float64(i%sheetColumns)*(cardW+gap)
		y := pad + float64(i/sheetColumns)*(cardH+gap)
		if err := drawCard(dc, tf, r, r == active, x, y, cardW, cardH, cfg); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func drawCard(dc *gg.Context, tf *typeface.Typeface, r rune, active bool, x, y, w, h float64, cfg config) error {
	header := cfg.px(sheetHeader)
	g := tf.Glyph(r)

	dc.SetColor(gg.Black.Color())
	dc.DrawString(string(r), x+cfg.px(4), y+header-cfg.px(5))

	// Status dot: filled when the glyph has content.
	dot := cfg.px(3)
	dc.DrawCircle(x+w-cfg.px(8), y+header/2, dot)
	if g != nil && !g.IsEmpty() {
		if err := dc.Fill(); err != nil {
			return err
		}
	} else {
		dc.SetLineWidth(cfg.px(1))
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	if active {
		dc.SetColor(gg.Black.Color())
		dc.SetLineWidth(cfg.px(2))
		dc.DrawRectangle(x, y, w, h)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	if g == nil {
		return nil
	}
	geo := NewGeometry(w, h-header, g.Cols(), g.Rows())
	return DrawGlyph(dc, g, x+geo.OffsetX, y+header+geo.OffsetY, geo.CellSize)
}
