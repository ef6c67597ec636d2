// Package appstate holds the interactive bubble session and its window.
//
// AppState is a two-phase state machine. It starts with no image; once a
// bitmap is selected every change to side, anchor or scale publishes a fresh
// Params snapshot to all subscribers. The window subscribes a render worker,
// tests subscribe recorders.
package appstate

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/render"
	"github.com/example/combatpics/internal/theme"
)

const (
	// DefaultScale is the bubble size a new image starts with.
	DefaultScale = 0.25
	// ScaleStep is the slider granularity.
	ScaleStep = 0.05
)

// Phase is the coarse state of a session.
type Phase int

const (
	NoImage Phase = iota
	ImageLoaded
)

func (p Phase) String() string {
	if p == ImageLoaded {
		return "image loaded"
	}
	return "no image"
}

// Params is an immutable snapshot of everything a render depends on.
type Params struct {
	Bitmap *render.Bitmap
	Side   bubble.Side
	Anchor *bubble.Point
	Scale  float64
	Fill   color.RGBA
}

// Job converts the snapshot into a render job for the given generation.
func (p Params) Job(generation uint64) render.Job {
	return render.Job{
		Bitmap:     p.Bitmap,
		Generation: generation,
		Side:       p.Side,
		Anchor:     p.Anchor,
		Scale:      p.Scale,
		Fill:       p.Fill,
	}
}

// ClickEvent is a pointer press in window coordinates. Offset is the
// position of the displayed image inside the window and Scroll the amount
// the view is scrolled. Zoom is the display scale of the image; zero means 1.
type ClickEvent struct {
	ClientX, ClientY      float64
	ScrollX, ScrollY      float64
	OffsetLeft, OffsetTop float64
	Zoom                  float64
}

// Local returns the click in image pixel coordinates.
func (e ClickEvent) Local() bubble.Point {
	zoom := e.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return bubble.Pt(
		(e.ClientX+e.ScrollX-e.OffsetLeft)/zoom,
		(e.ClientY+e.ScrollY-e.OffsetTop)/zoom,
	)
}

// SnapScale rounds v to the nearest ScaleStep and clamps it to [0,1]. It
// reports false for NaN.
func SnapScale(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	s := math.Round(v/ScaleStep) * ScaleStep
	s = math.Max(0, math.Min(1, s))
	return math.Round(s*100) / 100, true
}

// AppState is the interactive session.
type AppState struct {
	mu     sync.Mutex
	phase  Phase
	bitmap *render.Bitmap
	side   bubble.Side
	anchor *bubble.Point
	scale  float64

	defaultSide  bubble.Side
	defaultScale float64
	fill         color.RGBA
	fillSet      bool
	theme        *theme.Theme

	// Output is where Save writes; empty means a generated name in SaveDir.
	Output  string
	SaveDir string

	subsMu  sync.Mutex
	subs    map[int]func(Params)
	nextSub int

	onSave    func(path string)
	onCopy    func(img image.Image)
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage starts the session with b already selected.
func WithImage(b *render.Bitmap) Option { return func(a *AppState) { a.bitmap = b } }

// WithOutput sets the file Save writes to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory used for generated file names.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithDefaults sets the side and scale a newly selected image starts with.
func WithDefaults(side bubble.Side, scale float64) Option {
	return func(a *AppState) {
		if side.Valid() {
			a.defaultSide = side
		}
		if s, ok := SnapScale(scale); ok {
			a.defaultScale = s
		}
	}
}

// WithFill sets the bubble colour.
func WithFill(c color.Color) Option {
	return func(a *AppState) {
		if c != nil {
			a.fill = color.RGBAModel.Convert(c).(color.RGBA)
			a.fillSet = true
		}
	}
}

// WithTheme sets the window palette. Its Bubble colour is used unless
// WithFill is also given.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithSaveListener registers a callback invoked after each successful save.
func WithSaveListener(fn func(path string)) Option { return func(a *AppState) { a.onSave = fn } }

// WithCopyListener registers a callback invoked after each clipboard copy.
func WithCopyListener(fn func(img image.Image)) Option { return func(a *AppState) { a.onCopy = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates a session. Without WithImage it starts in NoImage.
func New(opts ...Option) *AppState {
	a := &AppState{
		defaultSide:  bubble.SideRight,
		defaultScale: DefaultScale,
		subs:         make(map[int]func(Params)),
	}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	if !a.fillSet {
		a.fill = a.theme.Bubble
		if a.fill == (color.RGBA{}) {
			a.fill = bubble.DefaultFill
		}
	}
	if a.bitmap != nil {
		a.reset(a.bitmap)
	}
	return a
}

func (a *AppState) reset(b *render.Bitmap) {
	a.phase = ImageLoaded
	a.bitmap = b
	a.side = a.defaultSide
	a.anchor = nil
	a.scale = a.defaultScale
}

// Theme returns the window palette.
func (a *AppState) Theme() *theme.Theme { return a.theme }

// Phase returns the current phase.
func (a *AppState) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Params returns the current snapshot and whether an image is loaded.
func (a *AppState) Params() (Params, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot(), a.phase == ImageLoaded
}

func (a *AppState) snapshot() Params {
	p := Params{Bitmap: a.bitmap, Side: a.side, Scale: a.scale, Fill: a.fill}
	if a.anchor != nil {
		pt := *a.anchor
		p.Anchor = &pt
	}
	return p
}

// Subscribe registers fn for every published snapshot and returns a
// function that removes it. When an image is already loaded fn receives the
// current snapshot immediately.
func (a *AppState) Subscribe(fn func(Params)) (unsubscribe func()) {
	a.subsMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.subsMu.Unlock()

	if p, ok := a.Params(); ok {
		fn(p)
	}
	return func() {
		a.subsMu.Lock()
		delete(a.subs, id)
		a.subsMu.Unlock()
	}
}

func (a *AppState) publish(p Params) {
	a.subsMu.Lock()
	fns := make([]func(Params), 0, len(a.subs))
	for i := 0; i < a.nextSub; i++ {
		if fn, ok := a.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	a.subsMu.Unlock()
	for _, fn := range fns {
		fn(p)
	}
}

// update applies fn under the lock when an image is loaded and publishes
// the result if fn reports a change.
func (a *AppState) update(fn func() bool) bool {
	a.mu.Lock()
	if a.phase != ImageLoaded || !fn() {
		a.mu.Unlock()
		return false
	}
	p := a.snapshot()
	a.mu.Unlock()
	a.publish(p)
	return true
}

// SelectImage makes b the current image and resets side, anchor and scale.
func (a *AppState) SelectImage(b *render.Bitmap) {
	if b == nil {
		return
	}
	a.mu.Lock()
	a.reset(b)
	p := a.snapshot()
	a.mu.Unlock()
	a.publish(p)
}

// ResetImage drops the current image so that a new one can be chosen.
func (a *AppState) ResetImage() {
	a.mu.Lock()
	a.phase = NoImage
	a.bitmap = nil
	a.anchor = nil
	a.mu.Unlock()
}

// ToggleSide selects the named side. Empty or unknown names leave the
// current side in place and return false.
func (a *AppState) ToggleSide(value string) bool {
	side, err := bubble.ParseSide(value)
	if err != nil {
		return false
	}
	return a.SetSide(side)
}

// SetSide selects side.
func (a *AppState) SetSide(side bubble.Side) bool {
	if !side.Valid() {
		return false
	}
	return a.update(func() bool {
		a.side = side
		return true
	})
}

// Slide sets the bubble scale from a raw slider value.
func (a *AppState) Slide(v float64) bool {
	s, ok := SnapScale(v)
	if !ok {
		return false
	}
	return a.update(func() bool {
		a.scale = s
		return true
	})
}

// StepScale moves the scale by n slider steps.
func (a *AppState) StepScale(n int) bool {
	return a.update(func() bool {
		s, ok := SnapScale(a.scale + float64(n)*ScaleStep)
		if !ok {
			return false
		}
		a.scale = s
		return true
	})
}

// Click points the bubble's mouth at the clicked position.
func (a *AppState) Click(e ClickEvent) bool {
	return a.SetAnchor(e.Local())
}

// ClickOn is Click for a view of b. The click is dropped when b is no
// longer the current image.
func (a *AppState) ClickOn(b *render.Bitmap, e ClickEvent) bool {
	p := e.Local()
	return a.update(func() bool {
		if b == nil || a.bitmap != b {
			return false
		}
		a.anchor = &p
		return true
	})
}

// SetAnchor points the bubble's mouth at p in image coordinates.
func (a *AppState) SetAnchor(p bubble.Point) bool {
	return a.update(func() bool {
		a.anchor = &p
		return true
	})
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}
