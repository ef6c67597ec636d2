package render

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrUnresolved is returned by Image while the bitmap is still decoding.
var ErrUnresolved = errors.New("bitmap not decoded yet")

// Bitmap is a decoded source image that may still be in flight. It resolves
// exactly once; later Resolve calls are ignored.
type Bitmap struct {
	once sync.Once
	done chan struct{}
	img  image.Image
	err  error
}

// Pending returns an unresolved bitmap. Call Resolve when decoding finishes.
func Pending() *Bitmap {
	return &Bitmap{done: make(chan struct{})}
}

// NewBitmap wraps an already decoded image.
func NewBitmap(img image.Image) *Bitmap {
	b := Pending()
	b.Resolve(img, nil)
	return b
}

// Decode starts decoding r in the background and returns immediately.
func Decode(r io.Reader) *Bitmap {
	b := Pending()
	go func() {
		img, err := imaging.Decode(r, imaging.AutoOrientation(true))
		b.Resolve(img, err)
	}()
	return b
}

// Resolve records the decode result. Only the first call has any effect.
func (b *Bitmap) Resolve(img image.Image, err error) {
	b.once.Do(func() {
		if err == nil && img == nil {
			err = errors.New("decoded image is nil")
		}
		b.img = img
		b.err = err
		close(b.done)
	})
}

// Done is closed once the bitmap has resolved.
func (b *Bitmap) Done() <-chan struct{} { return b.done }

// Complete reports whether decoding has finished.
func (b *Bitmap) Complete() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the bitmap resolves or ctx is cancelled.
func (b *Bitmap) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-b.done:
		return b.img, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Image returns the decoded image without blocking.
func (b *Bitmap) Image() (image.Image, error) {
	if !b.Complete() {
		return nil, ErrUnresolved
	}
	return b.img, b.err
}

// Size returns the natural dimensions, or zero while decoding.
func (b *Bitmap) Size() image.Point {
	img, err := b.Image()
	if err != nil {
		return image.Point{}
	}
	return img.Bounds().Size()
}
