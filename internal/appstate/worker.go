package appstate

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/example/combatpics/internal/render"
)

// frame is a finished composite together with the bitmap it shows.
type frame struct {
	img    *image.RGBA
	bitmap *render.Bitmap
}

// current returns the composite if it still shows the session's image.
// Selecting a new image invalidates older frames even before the new one
// finishes rendering.
func (f frame) current(p Params, loaded bool) *image.RGBA {
	if !loaded || f.img == nil || f.bitmap != p.Bitmap {
		return nil
	}
	return f.img
}

// clickEvent maps a window click onto the shown composite. Clicks land
// nowhere while no current composite is shown.
func (f frame) clickEvent(p Params, loaded bool, x, y float32, winW, winH int) (ClickEvent, bool) {
	img := f.current(p, loaded)
	if img == nil {
		return ClickEvent{}, false
	}
	return fitView(img.Bounds().Size(), winW, winH).click(x, y)
}

// renderLoop runs the Composite Renderer off the UI goroutine. Submissions
// go through a one slot channel where the newest job replaces any job not
// yet started. Selecting a new bitmap aborts the decode wait of the job in
// flight; the renderer's generation check discards anything that still
// completes late.
type renderLoop struct {
	renderer *render.Renderer
	jobs     chan render.Job
	onFrame  func(frame)
	onError  func(error)

	mu     sync.Mutex
	loaded *render.Bitmap
	gen    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func newRenderLoop(r *render.Renderer, onFrame func(frame), onError func(error)) *renderLoop {
	l := &renderLoop{
		renderer: r,
		jobs:     make(chan render.Job, 1),
		onFrame:  onFrame,
		onError:  onError,
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// submit queues a render of p. It is safe to call from any goroutine and
// never blocks on rendering.
func (l *renderLoop) submit(p Params) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || p.Bitmap == nil {
		return
	}
	if p.Bitmap != l.loaded {
		l.loaded = p.Bitmap
		l.gen = l.renderer.Load(p.Bitmap)
		if l.cancel != nil {
			l.cancel()
		}
	}
	job := p.Job(l.gen)
	select {
	case l.jobs <- job:
	default:
		select {
		case <-l.jobs:
		default:
		}
		l.jobs <- job
	}
}

func (l *renderLoop) run() {
	defer l.wg.Done()
	for job := range l.jobs {
		ctx, cancel := context.WithCancel(context.Background())
		l.mu.Lock()
		if l.closed || job.Generation != l.gen {
			l.mu.Unlock()
			cancel()
			continue
		}
		l.cancel = cancel
		l.mu.Unlock()

		img, err := l.renderer.Render(ctx, job)
		cancel()
		l.mu.Lock()
		l.cancel = nil
		l.mu.Unlock()

		switch {
		case errors.Is(err, render.ErrStale), errors.Is(err, context.Canceled):
		case err != nil:
			if l.onError != nil {
				l.onError(err)
			}
		default:
			if l.onFrame != nil {
				l.onFrame(frame{img: img, bitmap: job.Bitmap})
			}
		}
	}
}

// close stops the worker after the job in flight finishes or is aborted.
func (l *renderLoop) close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	close(l.jobs)
	l.mu.Unlock()
	l.wg.Wait()
}
