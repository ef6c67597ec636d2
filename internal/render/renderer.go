package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/surface"
)

// ErrStale reports that a render finished waiting for a bitmap that has
// since been replaced. The canvas is left untouched.
var ErrStale = errors.New("render superseded by a newer image")

// Job describes one full render.
type Job struct {
	Bitmap     *Bitmap
	Generation uint64
	Side       bubble.Side
	Anchor     *bubble.Point
	Scale      float64
	Fill       color.Color
}

func (j Job) options() []bubble.Option {
	opts := []bubble.Option{bubble.WithOptionalAnchor(j.Anchor), bubble.WithScale(j.Scale)}
	if j.Fill != nil {
		opts = append(opts, bubble.WithFill(j.Fill))
	}
	return opts
}

// Renderer owns the canvas and guards it against late decode completions.
type Renderer struct {
	mu         sync.Mutex
	canvas     *surface.Canvas
	current    *Bitmap
	generation uint64
	last       *image.RGBA
}

// NewRenderer returns a renderer with its own canvas.
func NewRenderer() *Renderer {
	return &Renderer{canvas: surface.New()}
}

// Load makes b the current bitmap and returns its generation. Jobs carrying
// an older generation are discarded.
func (r *Renderer) Load(b *Bitmap) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.current = b
	r.last = nil
	return r.generation
}

// Generation returns the generation of the current bitmap.
func (r *Renderer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Render waits for the job's bitmap and redraws the canvas if the job still
// refers to the current bitmap.
func (r *Renderer) Render(ctx context.Context, job Job) (*image.RGBA, error) {
	if job.Bitmap == nil {
		return nil, fmt.Errorf("render: no bitmap")
	}
	img, err := job.Bitmap.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for bitmap: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if job.Generation != r.generation || job.Bitmap != r.current {
		return nil, ErrStale
	}
	if err := paint(img, r.canvas, job.Side, job.options()); err != nil {
		return nil, err
	}
	out, err := r.canvas.Snapshot()
	if err != nil {
		return nil, err
	}
	r.last = out
	return out, nil
}

// Snapshot returns the most recent composite, or nil if none is current.
func (r *Renderer) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Close releases the canvas.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas.Close()
}
