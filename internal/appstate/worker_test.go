package appstate

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/render"
)

var blue = color.RGBA{0, 0, 255, 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func gray(c color.RGBA) bool {
	near := func(v uint8) bool { return v >= 0xc8 && v <= 0xd0 }
	return near(c.R) && near(c.G) && near(c.B)
}

func isBlue(c color.RGBA) bool {
	return c.R <= 5 && c.G <= 5 && c.B >= 250
}

func newTestLoop(t *testing.T) (*renderLoop, chan *image.RGBA) {
	t.Helper()
	r := render.NewRenderer()
	frames := make(chan *image.RGBA, 16)
	l := newRenderLoop(r, func(f frame) { frames <- f.img }, func(err error) { t.Errorf("render: %v", err) })
	t.Cleanup(func() {
		l.close()
		_ = r.Close()
	})
	return l, frames
}

func TestRenderLoopSkipsSupersededBitmap(t *testing.T) {
	l, frames := newTestLoop(t)

	slow := render.Pending()
	l.submit(Params{Bitmap: slow, Side: bubble.SideRight, Scale: 0.2, Fill: bubble.DefaultFill})
	fast := render.NewBitmap(solid(20, 10, blue))
	l.submit(Params{Bitmap: fast, Side: bubble.SideRight, Scale: 0.2, Fill: bubble.DefaultFill})

	select {
	case img := <-frames:
		if img.Bounds().Size() != image.Pt(20, 10) {
			t.Fatalf("first frame has size %v", img.Bounds().Size())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a frame")
	}

	slow.Resolve(solid(30, 30, blue), nil)
	time.Sleep(50 * time.Millisecond)
	select {
	case img := <-frames:
		t.Fatalf("late decode produced a frame of size %v", img.Bounds().Size())
	default:
	}
}

func TestRenderLoopFollowsSession(t *testing.T) {
	l, frames := newTestLoop(t)
	a := New(WithImage(render.NewBitmap(solid(100, 100, blue))))
	a.Subscribe(l.submit)
	a.ToggleSide("left")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case img := <-frames:
			if gray(img.RGBAAt(2, 50)) && isBlue(img.RGBAAt(97, 50)) {
				return
			}
		case <-deadline:
			t.Fatal("no frame with the bubble on the left")
		}
	}
}

func TestRenderLoopCloseAbortsPendingWait(t *testing.T) {
	r := render.NewRenderer()
	defer r.Close()
	l := newRenderLoop(r, nil, nil)
	l.submit(Params{Bitmap: render.Pending(), Scale: 0.2})

	done := make(chan struct{})
	go func() {
		l.close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close blocked on a pending decode")
	}
	l.submit(Params{Bitmap: render.NewBitmap(solid(1, 1, blue))})
}

func TestFrameIgnoresReplacedImage(t *testing.T) {
	a := New(WithImage(render.NewBitmap(solid(800, 600, blue))))
	old, _ := a.Params()
	shown := frame{img: solid(800, 600, blue), bitmap: old.Bitmap}
	winW, winH := 800, 600+toolbarHeight+statusHeight

	if _, ok := shown.clickEvent(old, true, 400, 300, winW, winH); !ok {
		t.Fatal("click on the shown image was ignored")
	}

	a.SelectImage(render.Pending())
	p, loaded := a.Params()
	if img := shown.current(p, loaded); img != nil {
		t.Fatal("composite of the previous image is still current")
	}
	if _, ok := shown.clickEvent(p, loaded, 400, 300, winW, winH); ok {
		t.Fatal("click mapped through the previous image")
	}
	if p.Anchor != nil {
		t.Fatalf("anchor = %v after selecting a new image", *p.Anchor)
	}

	a.ResetImage()
	p, loaded = a.Params()
	if _, ok := shown.clickEvent(p, loaded, 400, 300, winW, winH); ok {
		t.Fatal("click accepted without an image")
	}
}
