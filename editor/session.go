// Package editor holds the interactive state of a typeface editing session
// and maps input events onto the glyph model.
//
// A Session owns the typeface, the global metrics and the undo history.
// Pointer coordinates are logical canvas pixels of the editor surface drawn
// by RenderEditor. A Session is not safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/gogpu/gg"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/history"
	"github.com/modular-tools/typeface/persist"
	"github.com/modular-tools/typeface/render"
	"github.com/modular-tools/typeface/shape"
)

// ErrNoSelection is returned by cell operations while no cell is selected.
var ErrNoSelection = errors.New("editor: no cell selected")

// Session is one editing session.
type Session struct {
	tf      *typeface.Typeface
	metrics typeface.Metrics
	hist    *history.History
	char    rune

	brushMode bool
	brush     typeface.Cell
	guides    bool

	selected *typeface.Pos
	hovered  *typeface.Pos

	painting bool
	erasing  bool
	stroke   map[typeface.Pos]bool
	dirty    bool

	historyLimit int
	renderOpts   []render.Option
	thumbs       *render.ThumbnailCache
}

// Option configures a Session.
type Option func(*Session)

// WithHistoryLimit bounds the undo history.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

// WithMetrics starts the session with m instead of the default metrics.
func WithMetrics(m typeface.Metrics) Option {
	return func(s *Session) { s.metrics = m.Clamp() }
}

// WithRenderOptions applies opts to the editor surface. The size option also
// sets the canvas used for pointer hit testing.
func WithRenderOptions(opts ...render.Option) Option {
	return func(s *Session) { s.renderOpts = append(s.renderOpts, opts...) }
}

// New returns a session over an empty typeface, editing 'A' in brush mode
// with a black line brush.
func New(opts ...Option) *Session {
	s := &Session{
		metrics:      typeface.DefaultMetrics(),
		char:         'A',
		brushMode:    true,
		brush:        typeface.NewCell(shape.Line, 0, typeface.DefaultColor),
		historyLimit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tf = typeface.New(s.metrics)
	s.hist = history.New(s.historyLimit)
	s.hist.Commit(s.tf)
	s.thumbs = render.NewThumbnailCache(render.DefaultCacheCapacity)
	return s
}

// Typeface returns the live typeface. Callers must not modify it.
func (s *Session) Typeface() *typeface.Typeface { return s.tf }

// Metrics returns the global metrics.
func (s *Session) Metrics() typeface.Metrics { return s.metrics }

// Letter returns the character being edited.
func (s *Session) Letter() rune { return s.char }

// Glyph returns the glyph being edited.
func (s *Session) Glyph() *typeface.Glyph { return s.tf.Glyph(s.char) }

// Brush returns the brush cell.
func (s *Session) Brush() typeface.Cell { return s.brush }

// BrushMode reports whether pointer input paints.
func (s *Session) BrushMode() bool { return s.brushMode }

// Painting reports whether a paint stroke is in progress.
func (s *Session) Painting() bool { return s.painting }

// Guides reports whether typographic guides are shown.
func (s *Session) Guides() bool { return s.guides }

// Selected returns the selected cell.
func (s *Session) Selected() (typeface.Pos, bool) { return deref(s.selected) }

// Hovered returns the cell under the pointer.
func (s *Session) Hovered() (typeface.Pos, bool) { return deref(s.hovered) }

// History returns the undo history.
func (s *Session) History() *history.History { return s.hist }

func deref(p *typeface.Pos) (typeface.Pos, bool) {
	if p == nil {
		return typeface.Pos{}, false
	}
	return *p, true
}

// commit records the current typeface as one undo step.
func (s *Session) commit(reason string) {
	s.hist.Commit(s.tf)
	typeface.Logger().Debug("editor: commit", "reason", reason, "letter", string(s.char), "history", s.hist.Len())
}

// fitSelection drops a selection that no longer lies inside the glyph.
func (s *Session) fitSelection() {
	if s.selected == nil {
		return
	}
	g := s.Glyph()
	if s.selected.Row >= g.Rows() || s.selected.Col >= g.Cols() {
		s.selected = nil
	}
}

// SelectLetter switches editing to r and clears the selection.
func (s *Session) SelectLetter(r rune) error {
	if !s.tf.Has(r) {
		return fmt.Errorf("%w: %q", typeface.ErrUnknownChar, r)
	}
	s.char = r
	s.selected = nil
	return nil
}

// NextLetter moves to the next alphabet character, wrapping at the end.
func (s *Session) NextLetter() rune {
	s.char = typeface.Next(s.char)
	s.selected = nil
	return s.char
}

// PrevLetter moves to the previous alphabet character, wrapping at the start.
func (s *Session) PrevLetter() rune {
	s.char = typeface.Prev(s.char)
	s.selected = nil
	return s.char
}

// setMetric stores v into field after a bounds check and reconciles every
// glyph. A change that resizes glyphs is one undo step.
func (s *Session) setMetric(name string, field *int, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d outside [%d, %d]", typeface.ErrInvalid, name, v, lo, hi)
	}
	if *field == v {
		return nil
	}
	*field = v
	s.reconcile(name)
	return nil
}

func (s *Session) reconcile(reason string) {
	if s.tf.Reconcile(s.metrics) > 0 {
		s.fitSelection()
		s.commit(reason)
	}
}

// SetCols sets the column count of every glyph. Glyph heights are left as
// they are.
func (s *Session) SetCols(n int) error {
	if n < typeface.MinCols || n > typeface.MaxCols {
		return fmt.Errorf("%w: cols %d outside [%d, %d]", typeface.ErrInvalid, n, typeface.MinCols, typeface.MaxCols)
	}
	s.metrics.Cols = n
	if s.tf.SetCols(n) > 0 {
		s.fitSelection()
		s.commit("cols")
	}
	return nil
}

// SetRows sets the row count used while proportions are off. With
// proportions on the value is kept for later and no glyph changes.
func (s *Session) SetRows(n int) error {
	return s.setMetric("rows", &s.metrics.Rows, n, typeface.MinRows, typeface.MaxRows)
}

// SetXHeight sets the x-height in rows.
func (s *Session) SetXHeight(n int) error {
	return s.setMetric("x-height", &s.metrics.XHeight, n, typeface.MinXHeight, typeface.MaxXHeight)
}

// SetAscender sets the ascender height in rows.
func (s *Session) SetAscender(n int) error {
	return s.setMetric("ascender", &s.metrics.Ascender, n, typeface.MinAscender, typeface.MaxAscender)
}

// SetDescender sets the descender depth in rows.
func (s *Session) SetDescender(n int) error {
	return s.setMetric("descender", &s.metrics.Descender, n, typeface.MinDescender, typeface.MaxDescender)
}

// SetProportions switches between one global row count and per-class
// heights.
func (s *Session) SetProportions(on bool) {
	if s.metrics.Proportions == on {
		return
	}
	s.metrics.Proportions = on
	s.reconcile("proportions")
}

// SetGuides toggles the typographic guide lines.
func (s *Session) SetGuides(on bool) { s.guides = on }

// SetBrushMode switches between painting and selecting. Entering brush mode
// drops the selection.
func (s *Session) SetBrushMode(on bool) {
	s.endStroke()
	s.brushMode = on
	if on {
		s.selected = nil
	}
}

// SetBrushShape sets the brush shape and resets its rotation.
func (s *Session) SetBrushShape(k shape.Kind) {
	s.brush = s.brush.WithShape(k)
	s.brush.Rotation = 0
}

// SetBrushColor sets the brush color, given as #rgb or #rrggbb.
func (s *Session) SetBrushColor(c string) error {
	norm, err := typeface.NormalizeColor(c)
	if err != nil {
		return err
	}
	s.brush.Color = norm
	return nil
}

// RotateBrush turns the brush to its next rotation.
func (s *Session) RotateBrush() {
	s.brush = s.brush.Rotated()
}

func (s *Session) geometry() render.Geometry {
	return render.EditorGeometry(s.tf, s.char, s.renderOpts...)
}

// PointerDown handles a press at (x, y). In brush mode it starts a stroke
// that paints, or clears when erase is set; otherwise it selects the cell.
func (s *Session) PointerDown(x, y float64, erase bool) {
	p, ok := s.geometry().CellAt(x, y)
	if !ok {
		return
	}
	if !s.brushMode {
		s.selected = &p
		return
	}
	s.painting = true
	s.erasing = erase
	s.stroke = make(map[typeface.Pos]bool)
	s.dirty = false
	s.paint(p)
}

// PointerMove tracks the hovered cell and extends a stroke in progress.
func (s *Session) PointerMove(x, y float64, erase bool) {
	p, ok := s.geometry().CellAt(x, y)
	if !ok {
		s.hovered = nil
		return
	}
	s.hovered = &p
	if s.brushMode && s.painting {
		if erase != s.erasing {
			// Cells already visited are written again in the new mode.
			s.erasing = erase
			clear(s.stroke)
		}
		s.paint(p)
	}
}

// PointerUp ends a stroke. A stroke that changed the glyph is one undo step.
func (s *Session) PointerUp() {
	s.endStroke()
}

// PointerLeave clears the hover and ends a stroke in progress.
func (s *Session) PointerLeave() {
	s.hovered = nil
	s.endStroke()
}

func (s *Session) endStroke() {
	if !s.painting {
		return
	}
	s.painting = false
	s.stroke = nil
	if s.dirty {
		s.dirty = false
		s.commit("stroke")
	}
}

// paint writes the brush, or an empty cell while erasing, into p once per
// stroke and mode.
func (s *Session) paint(p typeface.Pos) {
	if s.stroke[p] {
		return
	}
	s.stroke[p] = true
	c := s.brush
	if s.erasing {
		c = typeface.EmptyCell()
	}
	changed, err := s.tf.SetCell(s.char, p.Row, p.Col, c)
	if err != nil {
		typeface.Logger().Warn("editor: paint", "error", err)
		return
	}
	s.dirty = s.dirty || changed
}

// PlaceShape puts a black k at rotation rot into the cell and selects it,
// as the context menu does. It is ignored in brush mode.
func (s *Session) PlaceShape(row, col int, k shape.Kind, rot int) error {
	if s.brushMode {
		return nil
	}
	if _, err := s.tf.SetCell(s.char, row, col, typeface.NewCell(k, rot, typeface.DefaultColor)); err != nil {
		return err
	}
	if k != shape.Empty {
		s.selected = &typeface.Pos{Row: row, Col: col}
	}
	s.commit("place")
	return nil
}

func (s *Session) selectedCell() (typeface.Pos, typeface.Cell, error) {
	if s.selected == nil {
		return typeface.Pos{}, typeface.Cell{}, ErrNoSelection
	}
	p := *s.selected
	c, err := s.Glyph().Cell(p.Row, p.Col)
	return p, c, err
}

// ChangeShape replaces the shape of the selected cell and resets its
// rotation.
func (s *Session) ChangeShape(k shape.Kind) error {
	p, c, err := s.selectedCell()
	if err != nil {
		return err
	}
	c = c.WithShape(k)
	c.Rotation = 0
	changed, err := s.tf.SetCell(s.char, p.Row, p.Col, c)
	if err != nil {
		return err
	}
	if changed {
		s.commit("shape")
	}
	return nil
}

// RotateSelected turns the selected cell to its next rotation. Shapes with a
// single rotation are left alone.
func (s *Session) RotateSelected() error {
	p, c, err := s.selectedCell()
	if err != nil {
		return err
	}
	if c.Shape.Rotations() < 2 {
		return nil
	}
	if _, err := s.tf.SetCell(s.char, p.Row, p.Col, c.Rotated()); err != nil {
		return err
	}
	s.commit("rotate")
	return nil
}

// ClearLetter empties the glyph being edited.
func (s *Session) ClearLetter() {
	if err := s.tf.Clear(s.char); err != nil {
		return
	}
	s.selected = nil
	s.commit("clear")
}

// Reset restores default metrics and an empty typeface and starts a fresh
// history.
func (s *Session) Reset() {
	s.metrics = typeface.DefaultMetrics()
	s.tf = typeface.New(s.metrics)
	s.selected = nil
	s.painting = false
	s.hist.Reset(s.tf)
	typeface.Logger().Info("editor: reset")
}

// Undo steps back one change. It reports false when there is nothing to
// undo.
func (s *Session) Undo() bool {
	tf, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(tf)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	tf, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(tf)
	return true
}

// restore makes tf the live typeface. History holds glyphs only, so the
// column count is taken back from them when they agree on one.
func (s *Session) restore(tf *typeface.Typeface) {
	if cols, ok := sharedCols(tf); ok {
		s.metrics.Cols = cols
	}
	s.tf = tf
	s.fitSelection()
}

// Keys understood by Key.
const (
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

// Key handles a key press and reports whether it was bound. ctrl+z undoes,
// ctrl+y redoes, the arrows change letter and r rotates the brush.
func (s *Session) Key(k string, ctrl bool) bool {
	switch {
	case ctrl && (k == "z" || k == "Z"):
		s.Undo()
	case ctrl && (k == "y" || k == "Y"):
		s.Redo()
	case k == KeyLeft:
		s.PrevLetter()
	case k == KeyRight:
		s.NextLetter()
	case !ctrl && (k == "r" || k == "R") && s.brushMode:
		s.RotateBrush()
	default:
		return false
	}
	return true
}

// Import replaces the typeface with a document read from r. The document is
// decoded off the caller's goroutine and joined before anything changes; a
// malformed document leaves the session untouched.
func (s *Session) Import(ctx context.Context, r io.Reader) error {
	tf, err := persist.Load(ctx, r).Wait(ctx)
	if err != nil {
		return err
	}
	s.restore(tf)
	s.selected = nil
	s.painting = false
	s.commit("import")
	typeface.Logger().Info("editor: imported typeface", "used", len(tf.Used()))
	return nil
}

func sharedCols(tf *typeface.Typeface) (int, bool) {
	cols := 0
	for _, r := range typeface.Alphabet {
		c := tf.Glyph(r).Cols()
		if cols == 0 {
			cols = c
		} else if c != cols {
			return 0, false
		}
	}
	return cols, cols >= typeface.MinCols && cols <= typeface.MaxCols
}

// Export writes the typeface as an indented JSON document.
func (s *Session) Export(w io.Writer) error {
	return persist.Encode(w, s.tf)
}

// View returns the editor surface state.
func (s *Session) View() render.EditorView {
	return render.EditorView{
		Char:      s.char,
		Metrics:   s.metrics,
		Guides:    s.guides,
		BrushMode: s.brushMode,
		Painting:  s.painting,
		Selected:  s.selected,
		Hovered:   s.hovered,
		Brush:     s.brush,
	}
}

func (s *Session) opts(extra []render.Option) []render.Option {
	return append(append([]render.Option(nil), s.renderOpts...), extra...)
}

// RenderEditor draws the editing surface of the current letter.
func (s *Session) RenderEditor(opts ...render.Option) (*gg.Context, error) {
	return render.Editor(s.tf, s.View(), s.opts(opts)...)
}

// RenderPreview draws text as a running line.
func (s *Session) RenderPreview(text string, opts ...render.Option) (*gg.Context, error) {
	return render.Preview(s.tf, text, opts...)
}

// RenderAlphabet draws the A-Z export image.
func (s *Session) RenderAlphabet(opts ...render.Option) (*gg.Context, error) {
	return render.Alphabet(s.tf, opts...)
}

// RenderSheet draws every glyph as a labelled card with the current letter
// outlined.
func (s *Session) RenderSheet(opts ...render.Option) (*gg.Context, error) {
	return render.Sheet(s.tf, s.char, opts...)
}

// RenderThumbnail draws r's glyph fitted into a small square. Thumbnails of
// unchanged glyphs come from a cache and must not be drawn on.
func (s *Session) RenderThumbnail(r rune, opts ...render.Option) (*gg.Context, error) {
	return s.thumbs.Thumbnail(s.tf, r, opts...)
}

// RenderThumbnails draws the thumbnail of every alphabet character in
// alphabet order, several at a time.
func (s *Session) RenderThumbnails(ctx context.Context, opts ...render.Option) ([]*gg.Context, error) {
	return s.thumbs.Warm(ctx, s.tf, runtime.GOMAXPROCS(0), opts...)
}

// ThumbnailStats reports the thumbnail cache counters.
func (s *Session) ThumbnailStats() render.CacheStats {
	return s.thumbs.Stats()
}

// RenderMenu draws one swatch per shape and rotation, the entries of the
// cell context menu, in shape order. The empty shape comes first.
func (s *Session) RenderMenu(opts ...render.Option) ([]*gg.Context, error) {
	var out []*gg.Context
	for _, k := range shape.Kinds() {
		for rot := range k.Rotations() {
			dc, err := render.Swatch(k, rot, opts...)
			if err != nil {
				return nil, err
			}
			out = append(out, dc)
		}
	}
	return out, nil
}
