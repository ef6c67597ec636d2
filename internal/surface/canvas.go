// Package surface provides the drawing surface the composite is rendered
// onto. A Canvas owns a single gg context sized to the current bitmap.
package surface

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/example/combatpics/internal/bubble"
)

// Canvas is a resizable 2D drawing surface. The zero value has no context
// until Resize is called.
type Canvas struct {
	dc     *gg.Context
	interp gg.InterpolationMode
}

var _ bubble.DrawingSurface = (*Canvas)(nil)

// New returns a canvas with no backing context.
func New() *Canvas {
	return &Canvas{interp: gg.InterpBilinear}
}

// Context2D returns the drawing context or bubble.ErrNoContext when the
// canvas has not been sized yet.
func (c *Canvas) Context2D() (*gg.Context, error) {
	if c == nil || c.dc == nil {
		return nil, bubble.ErrNoContext
	}
	return c.dc, nil
}

// Resize sets the canvas to width x height and discards all prior pixels,
// path, clip and transform state even when the size is unchanged.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize canvas to %dx%d: dimensions must be positive", width, height)
	}
	if c.dc == nil {
		c.dc = gg.NewContext(width, height)
	} else if err := c.dc.Resize(width, height); err != nil {
		return fmt.Errorf("resize canvas: %w", err)
	}
	c.dc.Identity()
	c.dc.ResetClip()
	c.dc.ClearPath()
	c.dc.Clear()
	return nil
}

// Size reports the current canvas dimensions.
func (c *Canvas) Size() image.Point {
	if c == nil || c.dc == nil {
		return image.Point{}
	}
	return image.Pt(c.dc.Width(), c.dc.Height())
}

// SetImageSmoothing selects the interpolation used by DrawImage.
func (c *Canvas) SetImageSmoothing(mode gg.InterpolationMode) {
	c.interp = mode
}

// ImageSmoothing returns the interpolation used by DrawImage.
func (c *Canvas) ImageSmoothing() gg.InterpolationMode {
	return c.interp
}

// DrawImage draws img with its top-left corner at (x, y) at natural size.
func (c *Canvas) DrawImage(img image.Image, x, y float64) error {
	dc, err := c.Context2D()
	if err != nil {
		return err
	}
	b := img.Bounds()
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      float64(b.Dx()),
		DstHeight:     float64(b.Dy()),
		Interpolation: c.interp,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

// Snapshot copies the current pixels into a new RGBA image.
func (c *Canvas) Snapshot() (*image.RGBA, error) {
	dc, err := c.Context2D()
	if err != nil {
		return nil, err
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush canvas: %w", err)
	}
	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas image type %T", dc.Image())
	}
	return rgba, nil
}

// EncodePNG writes the current pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	dc, err := c.Context2D()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	if c == nil || c.dc == nil {
		return nil
	}
	err := c.dc.Close()
	c.dc = nil
	return err
}
