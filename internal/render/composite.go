// Package render draws the source bitmap and the speech bubble onto a
// single canvas sized to the bitmap.
package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/surface"
)

// Composite waits for b to decode, resets c to the bitmap's natural size,
// draws the bitmap and then the bubble. It is always a full redraw.
func Composite(ctx context.Context, b *Bitmap, c *surface.Canvas, side bubble.Side, opts ...bubble.Option) error {
	img, err := b.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for bitmap: %w", err)
	}
	return paint(img, c, side, opts)
}

func paint(img image.Image, c *surface.Canvas, side bubble.Side, opts []bubble.Option) error {
	size := img.Bounds().Size()
	if err := c.Resize(size.X, size.Y); err != nil {
		return err
	}
	c.SetImageSmoothing(gg.InterpBicubic)
	if err := c.DrawImage(img, 0, 0); err != nil {
		return fmt.Errorf("draw bitmap: %w", err)
	}
	if err := bubble.Draw(c, side, opts...); err != nil {
		return fmt.Errorf("draw bubble: %w", err)
	}
	return nil
}
