package shape

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Arc is a stroked circular arc. Angles are in radians, measured clockwise
// on screen from the positive X axis, and End is always greater than Start.
type Arc struct {
	Center Point
	Radius float64
	Start  float64
	End    float64
}

// StartPoint returns the point where the arc begins.
func (a Arc) StartPoint() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.Start),
		Y: a.Center.Y + a.Radius*math.Sin(a.Start),
	}
}

// Outline is the resolved geometry of one primitive placed in one cell.
// Polygons are filled, arcs are stroked with Width and butt caps.
type Outline struct {
	Width    float64
	Polygons [][]Point
	Arcs     []Arc
}

// IsEmpty reports whether the outline draws nothing.
func (o Outline) IsEmpty() bool {
	return len(o.Polygons) == 0 && len(o.Arcs) == 0
}

// Outline resolves k for the cell whose top-left corner is (x, y) and whose
// edge is s. Invalid rotations are normalized to 0.
func (k Kind) Outline(x, y, s float64, rot int) Outline {
	rot = k.Normalize(rot)
	w := s * StrokeRatio
	o := Outline{Width: w}
	cell := frame{x: x, y: y, s: s, turns: rot}

	switch k {
	case Line:
		o.Polygons = append(o.Polygons, cell.polygon(
			Point{0, 0}, Point{s, 0}, Point{s, w}, Point{0, w},
		))
	case Quarter:
		o.Arcs = append(o.Arcs, cell.arc(Point{s, s}, s-w/2, math.Pi, 1.5*math.Pi))
	case Half:
		o.Arcs = append(o.Arcs, cell.arc(Point{s / 2, s}, s/2-w/2, math.Pi, 2*math.Pi))
	case Circle:
		o.Arcs = append(o.Arcs, cell.arc(Point{s / 2, s / 2}, s/2-w/2, 0, 2*math.Pi))
	case Diagonal:
		// Vertical offset that gives the band a perpendicular width of w.
		d := w * math.Sqrt2
		o.Polygons = append(o.Polygons, cell.polygon(
			Point{0, 0}, Point{s, s}, Point{s - d, s}, Point{0, d},
		))
	default:
		// Empty, and kinds outside the closed set.
		return Outline{}
	}
	return o
}

// frame maps unrotated cell-local coordinates to canvas coordinates.
type frame struct {
	x, y, s float64
	turns   int
}

func (f frame) point(p Point) Point {
	h := f.s / 2
	dx, dy := p.X-h, p.Y-h
	switch f.turns {
	case 1:
		dx, dy = -dy, dx
	case 2:
		dx, dy = -dx, -dy
	case 3:
		dx, dy = dy, -dx
	}
	return Point{X: f.x + h + dx, Y: f.y + h + dy}
}

func (f frame) polygon(pts ...Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = f.point(p)
	}
	return out
}

func (f frame) arc(center Point, r, start, end float64) Arc {
	offset := float64(f.turns) * math.Pi / 2
	return Arc{
		Center: f.point(center),
		Radius: r,
		Start:  start + offset,
		End:    end + offset,
	}
}

// Painter is the subset of *gg.Context used to draw outlines.
type Painter interface {
	SetColor(c color.Color)
	SetLineWidth(width float64)
	SetLineCap(lineCap gg.LineCap)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawArc(x, y, r, angle1, angle2 float64)
	Fill() error
	Stroke() error
}

// Draw paints the outline in the given color.
func (o Outline) Draw(p Painter, c gg.RGBA) error {
	if o.IsEmpty() {
		return nil
	}
	p.SetColor(c.Color())
	for _, poly := range o.Polygons {
		for i, pt := range poly {
			if i == 0 {
				p.MoveTo(pt.X, pt.Y)
				continue
			}
			p.LineTo(pt.X, pt.Y)
		}
		p.ClosePath()
		if err := p.Fill(); err != nil {
			return err
		}
	}
	if len(o.Arcs) == 0 {
		return nil
	}
	p.SetLineWidth(o.Width)
	p.SetLineCap(gg.LineCapButt)
	for _, a := range o.Arcs {
		start := a.StartPoint()
		p.MoveTo(start.X, start.Y)
		p.DrawArc(a.Center.X, a.Center.Y, a.Radius, a.Start, a.End)
		if err := p.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// Draw paints kind k into the cell at (x, y) with edge s. Empty cells draw
// nothing.
func Draw(p Painter, k Kind, x, y, s float64, rot int, c gg.RGBA) error {
	return k.Outline(x, y, s, rot).Draw(p, c)
}
