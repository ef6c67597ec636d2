// Package crop cuts a sub-rectangle out of an image.
//
// Rectangles are expressed in displayed coordinates: the image may be shown
// scaled down, so each axis is mapped back to natural pixels before cutting.
// The output is then multiplied by the device pixel ratio so that the result
// stays sharp on high density screens.
package crop

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ErrEmptyCrop is returned when a crop selects no pixels.
var ErrEmptyCrop = errors.New("empty crop")

// Rect is a crop selection in displayed coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether the selection has no area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.Width, r.Height)
}

// ParseRect parses "x,y,w,h".
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("crop %q: want x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("crop %q: %w", s, err)
		}
		v[i] = f
	}
	return Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// Options describe how the image was displayed when the selection was made.
// Zero display sizes mean the image was shown at its natural size and a zero
// PixelRatio means 1.
type Options struct {
	DisplayWidth  float64
	DisplayHeight float64
	PixelRatio    float64
}

func (o Options) scales(b image.Rectangle) (sx, sy, dpr float64) {
	sx, sy, dpr = 1, 1, 1
	if o.DisplayWidth > 0 {
		sx = float64(b.Dx()) / o.DisplayWidth
	}
	if o.DisplayHeight > 0 {
		sy = float64(b.Dy()) / o.DisplayHeight
	}
	if o.PixelRatio > 0 {
		dpr = o.PixelRatio
	}
	return sx, sy, dpr
}

// Apply crops img. When the selection is empty it returns img itself and
// false so that the caller can continue without cropping.
func Apply(img image.Image, r Rect, opts Options) (image.Image, bool) {
	out, err := Crop(img, r, opts)
	if err != nil {
		return img, false
	}
	return out, true
}

// Crop returns a new image of floor(w*scaleX*dpr) x floor(h*scaleY*dpr)
// pixels holding the selected region. Regions outside the source stay
// transparent.
func Crop(img image.Image, r Rect, opts Options) (image.Image, error) {
	if img == nil || r.Empty() {
		return nil, ErrEmptyCrop
	}
	b := img.Bounds()
	sx, sy, dpr := opts.scales(b)

	// natural-pixel source rectangle
	x0 := float64(b.Min.X) + r.X*sx
	y0 := float64(b.Min.Y) + r.Y*sy
	w := r.Width * sx
	h := r.Height * sy

	dw := int(math.Floor(w * dpr))
	dh := int(math.Floor(h * dpr))
	if dw <= 0 || dh <= 0 {
		return nil, ErrEmptyCrop
	}
	sr := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x0+w)), int(math.Ceil(y0+h)),
	).Intersect(b)
	if sr.Empty() {
		return nil, ErrEmptyCrop
	}

	if isInt(x0) && isInt(y0) && dw == int(w) && dh == int(h) && sr.Dx() == dw && sr.Dy() == dh {
		return imaging.Crop(img, sr), nil
	}

	kx := float64(dw) / w
	ky := float64(dh) / h
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	s2d := f64.Aff3{
		kx, 0, -x0 * kx,
		0, ky, -y0 * ky,
	}
	draw.CatmullRom.Transform(dst, s2d, img, sr, draw.Src, nil)
	return dst, nil
}

func isInt(f float64) bool { return f == math.Trunc(f) }
