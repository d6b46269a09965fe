package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/shape"
)

// Editor overlay colors.
var (
	GridColor      = gg.Hex("#d0d0d0")
	GuideColor     = gg.RGBA2(1, 0, 0, 0.3)
	SelectionColor = gg.Black
	HoverColor     = gg.RGBA2(0, 0, 0, 0.05)
)

// BrushPreviewAlpha is the opacity of the brush stroke shown under the
// pointer.
const BrushPreviewAlpha = 0.4

// Geometry maps a glyph grid fitted into a canvas. Cells are square; the
// grid is centered on the axis with spare room.
type Geometry struct {
	Cols, Rows int
	CellSize   float64
	OffsetX    float64
	OffsetY    float64
}

// NewGeometry fits a cols x rows grid into a w x h area.
func NewGeometry(w, h float64, cols, rows int) Geometry {
	if cols <= 0 || rows <= 0 {
		return Geometry{}
	}
	cell := math.Min(w/float64(cols), h/float64(rows))
	return Geometry{
		Cols:     cols,
		Rows:     rows,
		CellSize: cell,
		OffsetX:  (w - cell*float64(cols)) / 2,
		OffsetY:  (h - cell*float64(rows)) / 2,
	}
}

// Width returns the grid width in pixels.
func (g Geometry) Width() float64 { return g.CellSize * float64(g.Cols) }

// Height returns the grid height in pixels.
func (g Geometry) Height() float64 { return g.CellSize * float64(g.Rows) }

// CellAt returns the cell under the point (x, y). The second result is
// false outside the grid.
func (g Geometry) CellAt(x, y float64) (typeface.Pos, bool) {
	if g.CellSize <= 0 {
		return typeface.Pos{}, false
	}
	col := int(math.Floor((x - g.OffsetX) / g.CellSize))
	row := int(math.Floor((y - g.OffsetY) / g.CellSize))
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return typeface.Pos{}, false
	}
	return typeface.Pos{Row: row, Col: col}, true
}

// CellOrigin returns the top-left corner of the cell at p.
func (g Geometry) CellOrigin(p typeface.Pos) (x, y float64) {
	return g.OffsetX + float64(p.Col)*g.CellSize, g.OffsetY + float64(p.Row)*g.CellSize
}

// EditorView is the interaction state the editor surface reflects.
type EditorView struct {
	Char    rune
	Metrics typeface.Metrics
	// Guides draws typographic guide lines while proportions are enabled.
	Guides bool
	// BrushMode is paint mode; otherwise cells are selected by clicking.
	BrushMode bool
	Painting  bool
	Selected  *typeface.Pos
	Hovered   *typeface.Pos
	Brush     typeface.Cell
}

// EditorSize is the default logical size of the editor canvas.
const EditorSize = 480

// EditorGeometry returns the logical geometry of char's grid on an editor
// canvas of the configured size, for hit testing.
func EditorGeometry(tf *typeface.Typeface, char rune, opts ...Option) Geometry {
	cfg := newConfig(config{width: EditorSize, height: EditorSize}, opts)
	g := tf.Glyph(char)
	if g == nil {
		return Geometry{}
	}
	return NewGeometry(float64(cfg.width), float64(cfg.height), g.Cols(), g.Rows())
}

// Editor renders the single-glyph editing surface: grid overlay, guides,
// shapes, selection and hover highlights and the brush preview.
func Editor(tf *typeface.Typeface, v EditorView, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		width:      EditorSize,
		height:     EditorSize,
		background: gg.Transparent,
	}, opts)
	dc := cfg.canvas(cfg.px(float64(cfg.width)), cfg.px(float64(cfg.height)))
	g := tf.Glyph(v.Char)
	if g == nil {
		return dc, nil
	}
	geo := NewGeometry(float64(dc.Width()), float64(dc.Height()), g.Cols(), g.Rows())

	if err := drawGrid(dc, geo, cfg.px(1)); err != nil {
		return nil, err
	}
	if v.Guides && v.Metrics.Proportions {
		if err := drawGuides(dc, geo, v.Char, v.Metrics, cfg.px(1)); err != nil {
			return nil, err
		}
	}
	if err := DrawGlyph(dc, g, geo.OffsetX, geo.OffsetY, geo.CellSize); err != nil {
		return nil, err
	}

	s := geo.CellSize
	if v.Selected != nil && !v.BrushMode {
		x, y := geo.CellOrigin(*v.Selected)
		inset := cfg.px(2)
		dc.SetColor(SelectionColor.Color())
		dc.SetLineWidth(cfg.px(2))
		dc.DrawRectangle(x+inset, y+inset, s-2*inset, s-2*inset)
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	if v.Hovered != nil && v.Selected == nil && !v.BrushMode {
		x, y := geo.CellOrigin(*v.Hovered)
		inset := cfg.px(4)
		dc.SetColor(HoverColor.Color())
		dc.DrawRectangle(x+inset, y+inset, s-2*inset, s-2*inset)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	if v.Hovered != nil && v.BrushMode && !v.Painting {
		x, y := geo.CellOrigin(*v.Hovered)
		c := typeface.RGBA(v.Brush.Color)
		c.A *= BrushPreviewAlpha
		if err := shape.Draw(dc, v.Brush.Shape, x, y, s, v.Brush.Rotation, c); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func drawGrid(dc *gg.Context, geo Geometry, width float64) error {
	dc.SetColor(GridColor.Color())
	dc.SetLineWidth(width)
	right := geo.OffsetX + geo.Width()
	bottom := geo.OffsetY + geo.Height()
	for i := 0; i <= geo.Cols; i++ {
		x := geo.OffsetX + float64(i)*geo.CellSize
		dc.DrawLine(x, geo.OffsetY, x, bottom)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	for i := 0; i <= geo.Rows; i++ {
		y := geo.OffsetY + float64(i)*geo.CellSize
		dc.DrawLine(geo.OffsetX, y, right, y)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// GuideLines returns the y coordinates of the typographic guides of char,
// measured from the bottom of the grid. The descender class sits its
// baseline Descender rows above the bottom edge.
func GuideLines(geo Geometry, char rune, m typeface.Metrics) []float64 {
	class := typeface.Classify(char)
	baseline := geo.OffsetY + geo.Height()
	if class == typeface.ClassDescender {
		baseline -= float64(m.Descender) * geo.CellSize
	}
	lines := []float64{baseline, baseline - float64(m.XHeight)*geo.CellSize}
	switch class {
	case typeface.ClassAscender, typeface.ClassCap:
		lines = append(lines, baseline-float64(m.XHeight+m.Ascender)*geo.CellSize)
	case typeface.ClassDescender:
		lines = append(lines, baseline+float64(m.Descender)*geo.CellSize)
	}
	return lines
}

func drawGuides(dc *gg.Context, geo Geometry, char rune, m typeface.Metrics, width float64) error {
	dc.SetColor(GuideColor.Color())
	dc.SetLineWidth(width)
	dc.SetDash(5*width, 5*width)
	defer dc.ClearDash()
	right := geo.OffsetX + geo.Width()
	for _, y := range GuideLines(geo, char, m) {
		dc.DrawLine(geo.OffsetX, y, right, y)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// Swatch renders one shape at one rotation in black on a small square, as
// shown in the cell context menu.
func Swatch(k shape.Kind, rot int, opts ...Option) (*gg.Context, error) {
	cfg := newConfig(config{
		width:      50,
		height:     50,
		padding:    5,
		background: gg.Transparent,
	}, opts)
	dc := cfg.canvas(cfg.px(float64(cfg.width)), cfg.px(float64(cfg.height)))
	pad := cfg.px(cfg.padding)
	s := math.Min(float64(dc.Width()), float64(dc.Height())) - 2*pad
	if err := shape.Draw(dc, k, pad, pad, s, rot, gg.Black); err != nil {
		return nil, err
	}
	return dc, nil
}
