package bubble

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// ErrNoContext is returned when the surface cannot provide a 2D context.
var ErrNoContext = errors.New("no 2d context")

// DrawingSurface is anything that can hand out a 2D drawing context.
type DrawingSurface interface {
	Context2D() (*gg.Context, error)
}

// Draw paints the bubble ellipse and then its mouth onto c using a single
// flat fill. The canvas size is taken from the context.
func Draw(c DrawingSurface, side Side, opts ...Option) error {
	if c == nil {
		return ErrNoContext
	}
	dc, err := c.Context2D()
	if err != nil {
		return err
	}
	if dc == nil {
		return ErrNoContext
	}
	s := resolve(opts)
	g := layout(float64(dc.Width()), float64(dc.Height()), side, s)

	dc.SetColor(s.fill)
	dc.ClearPath()
	dc.DrawEllipse(g.Ellipse.Center.X, g.Ellipse.Center.Y, g.Ellipse.RX, g.Ellipse.RY)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill bubble: %w", err)
	}

	dc.MoveTo(g.Triangle[0].X, g.Triangle[0].Y)
	dc.LineTo(g.Triangle[1].X, g.Triangle[1].Y)
	dc.LineTo(g.Triangle[2].X, g.Triangle[2].Y)
	dc.ClosePath()
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill mouth: %w", err)
	}
	return nil
}
