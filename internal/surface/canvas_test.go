package surface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/gg"

	"github.com/example/combatpics/internal/bubble"
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestCanvasWithoutContext(t *testing.T) {
	c := New()
	if _, err := c.Context2D(); !errors.Is(err, bubble.ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
	if err := c.DrawImage(uniform(2, 2, color.RGBA{A: 255}), 0, 0); !errors.Is(err, bubble.ErrNoContext) {
		t.Fatalf("DrawImage: expected ErrNoContext, got %v", err)
	}
	if c.Size() != (image.Point{}) {
		t.Fatalf("unexpected size %v", c.Size())
	}
}

func TestCanvasResizeRejectsEmpty(t *testing.T) {
	c := New()
	if err := c.Resize(0, 10); err == nil {
		t.Fatal("expected error for zero width")
	}
	if err := c.Resize(10, -1); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestCanvasResizeClearsEvenAtSameSize(t *testing.T) {
	c := New()
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Resize(8, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := c.DrawImage(uniform(8, 6, color.RGBA{R: 255, A: 255}), 0, 0); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if err := c.Resize(8, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for i := 3; i < len(snap.Pix); i += 4 {
		if snap.Pix[i] != 0 {
			t.Fatalf("pixel %d not cleared: alpha %d", i/4, snap.Pix[i])
		}
	}
	if got := c.Size(); got != image.Pt(8, 6) {
		t.Fatalf("size = %v", got)
	}
}

func TestCanvasDrawImageAndEncode(t *testing.T) {
	c := New()
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Resize(16, 12); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	c.SetImageSmoothing(gg.InterpBicubic)
	if c.ImageSmoothing() != gg.InterpBicubic {
		t.Fatal("smoothing not stored")
	}
	blue := color.RGBA{B: 255, A: 255}
	if err := c.DrawImage(uniform(16, 12, blue), 0, 0); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap.RGBAAt(8, 6); got.B < 250 || got.A < 250 || got.R > 5 {
		t.Fatalf("centre pixel = %+v, want %+v", got, blue)
	}
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(16, 12) {
		t.Fatalf("encoded size = %v", decoded.Bounds().Size())
	}
}
