package bubble

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
)

type ctxSurface struct{ dc *gg.Context }

func (s ctxSurface) Context2D() (*gg.Context, error) { return s.dc, nil }

type brokenSurface struct{}

func (brokenSurface) Context2D() (*gg.Context, error) { return nil, ErrNoContext }

func closeTo(c color.RGBA, want color.RGBA) bool {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(c.R, want.R) <= 2 && d(c.G, want.G) <= 2 && d(c.B, want.B) <= 2 && d(c.A, want.A) <= 2
}

func render(t *testing.T, w, h int, side Side, opts ...Option) *image.RGBA {
	t.Helper()
	dc := gg.NewContext(w, h)
	t.Cleanup(func() { _ = dc.Close() })
	if err := Draw(ctxSurface{dc}, side, opts...); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return dc.Image().(*image.RGBA)
}

func TestDrawWithoutContext(t *testing.T) {
	if err := Draw(nil, SideRight); !errors.Is(err, ErrNoContext) {
		t.Fatalf("nil surface: got %v", err)
	}
	if err := Draw(brokenSurface{}, SideRight); !errors.Is(err, ErrNoContext) {
		t.Fatalf("broken surface: got %v", err)
	}
	if err := Draw(ctxSurface{}, SideRight); !errors.Is(err, ErrNoContext) {
		t.Fatalf("empty surface: got %v", err)
	}
}

func TestDrawFillsEllipseAndMouth(t *testing.T) {
	img := render(t, 100, 100, SideRight)
	if got := img.RGBAAt(97, 50); !closeTo(got, DefaultFill) {
		t.Fatalf("ellipse pixel = %+v, want %+v", got, DefaultFill)
	}
	if got := img.RGBAAt(70, 50); !closeTo(got, DefaultFill) {
		t.Fatalf("mouth pixel = %+v, want %+v", got, DefaultFill)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("corner pixel should stay transparent, got %+v", got)
	}
	if got := img.RGBAAt(70, 80); got.A != 0 {
		t.Fatalf("pixel outside both shapes should stay transparent, got %+v", got)
	}
}

func TestDrawUsesFillAndAnchor(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	img := render(t, 100, 100, SideTop, WithFill(red), WithAnchor(Pt(50, 95)))
	if got := img.RGBAAt(50, 85); !closeTo(got, red) {
		t.Fatalf("mouth near anchor = %+v, want red", got)
	}
	if got := img.RGBAAt(50, 2); !closeTo(got, red) {
		t.Fatalf("ellipse pixel = %+v, want red", got)
	}
}

func TestDrawDeterministic(t *testing.T) {
	a := render(t, 64, 48, SideBottom, WithScale(0.4), WithAnchor(Pt(10, 5)))
	b := render(t, 64, 48, SideBottom, WithScale(0.4), WithAnchor(Pt(10, 5)))
	if string(a.Pix) != string(b.Pix) {
		t.Fatal("identical inputs produced different pixels")
	}
}
