package bubble

import (
	"image/color"
)

// DefaultScale is the ellipse size used when no scale option is given.
const DefaultScale = 0.2

// DefaultFill is the flat fill shared by the ellipse and the mouth.
var DefaultFill = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center Point
	RX, RY float64
}

// Geometry is the drawing program for one bubble. Triangle holds the first
// base vertex, the apex and the second base vertex in path order.
type Geometry struct {
	Ellipse  Ellipse
	Triangle [3]Point
}

// Apex returns the mouth point of the triangle.
func (g Geometry) Apex() Point { return g.Triangle[1] }

type settings struct {
	anchor *Point
	scale  float64
	fill   color.Color
}

// Option adjusts how a bubble is laid out or painted.
type Option func(*settings)

// WithAnchor places the triangle apex at p instead of the canvas centre.
func WithAnchor(p Point) Option {
	return func(s *settings) {
		pt := p
		s.anchor = &pt
	}
}

// WithOptionalAnchor is WithAnchor for callers holding a possibly nil anchor.
func WithOptionalAnchor(p *Point) Option {
	return func(s *settings) {
		if p == nil {
			s.anchor = nil
			return
		}
		pt := *p
		s.anchor = &pt
	}
}

// WithScale sets the ellipse radius fraction along the axis perpendicular to
// the chosen edge.
func WithScale(scale float64) Option { return func(s *settings) { s.scale = scale } }

// WithFill sets the fill colour.
func WithFill(col color.Color) Option { return func(s *settings) { s.fill = col } }

func resolve(opts []Option) settings {
	s := settings{scale: DefaultScale, fill: DefaultFill}
	for _, o := range opts {
		o(&s)
	}
	if s.fill == nil {
		s.fill = DefaultFill
	}
	return s
}

// Layout computes the ellipse and triangle for a width x height canvas.
// The ellipse centre sits on the midpoint of the chosen edge and the
// triangle base spans 3/8 to 5/8 of that edge.
func Layout(width, height int, side Side, opts ...Option) Geometry {
	return layout(float64(width), float64(height), side, resolve(opts))
}

func layout(w, h float64, side Side, s settings) Geometry {
	apex := Pt(w/2, h/2)
	if s.anchor != nil {
		apex = *s.anchor
	}

	var g Geometry
	switch side {
	case SideLeft:
		g.Ellipse = Ellipse{Center: Pt(0, h/2), RX: w * s.scale, RY: h / 1.5}
		g.Triangle = [3]Point{Pt(0, h*3/8), apex, Pt(0, h*5/8)}
	case SideTop:
		g.Ellipse = Ellipse{Center: Pt(w/2, 0), RX: w / 1.5, RY: h * s.scale}
		g.Triangle = [3]Point{Pt(w*3/8, 0), apex, Pt(w*5/8, 0)}
	case SideBottom:
		g.Ellipse = Ellipse{Center: Pt(w/2, h), RX: w / 1.5, RY: h * s.scale}
		g.Triangle = [3]Point{Pt(w*3/8, h), apex, Pt(w*5/8, h)}
	default:
		g.Ellipse = Ellipse{Center: Pt(w, h/2), RX: w * s.scale, RY: h / 1.5}
		g.Triangle = [3]Point{Pt(w, h*3/8), apex, Pt(w, h*5/8)}
	}
	return g
}
