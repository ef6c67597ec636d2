package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/combatpics/internal/render"
)

// frameDropThreshold specifies how many consecutive frames can be cancelled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 3 * time.Second

// compositeReady carries a finished render into the event loop.
type compositeReady struct{ frame }

// statusEvent shows a transient message in the status bar.
type statusEvent struct{ text string }

// Run opens the window and blocks until it closes.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on an existing screen.
func (a *AppState) Main(s screen.Screen) {
	width, height := 800, 600
	if p, ok := a.Params(); ok && p.Bitmap.Complete() {
		if sz := p.Bitmap.Size(); sz.X > 0 && sz.Y > 0 {
			width = clamp(sz.X, 480, 1280)
			height = clamp(sz.Y+toolbarHeight+statusHeight, 240, 900)
		}
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "combatpics"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	renderer := render.NewRenderer()
	defer renderer.Close()

	loop := newRenderLoop(renderer,
		func(f frame) { w.Send(compositeReady{f}) },
		func(err error) {
			log.Printf("render: %v", err)
			w.Send(statusEvent{"render failed: " + err.Error()})
		})
	defer loop.close()
	unsubscribe := a.Subscribe(loop.submit)
	defer unsubscribe()

	var (
		shown        frame
		message      string
		messageUntil time.Time
		hover        = -1
		pressed      = -1
	)
	say := func(text string) {
		log.Print(text)
		message = text
		messageUntil = time.Now().Add(messageDuration)
		w.Send(paint.Event{})
	}

	actions := map[string]func(){
		actLeft:   func() { a.ToggleSide(actLeft) },
		actTop:    func() { a.ToggleSide(actTop) },
		actRight:  func() { a.ToggleSide(actRight) },
		actBottom: func() { a.ToggleSide(actBottom) },
		actSmall:  func() { a.StepScale(-1) },
		actLarge:  func() { a.StepScale(1) },
		actSave: func() {
			path, err := a.Save(renderer.Snapshot())
			if err != nil {
				say(err.Error())
				return
			}
			say("saved " + path)
		},
		actCopy: func() {
			if err := a.Copy(renderer.Snapshot()); err != nil {
				say(err.Error())
				return
			}
			say("copied to clipboard")
		},
		actPaste: func() {
			go func() {
				ok, err := a.Paste(nil)
				switch {
				case err != nil:
					w.Send(statusEvent{"paste: " + err.Error()})
				case !ok:
					w.Send(statusEvent{"clipboard unavailable"})
				}
			}()
		},
		actReset: func() {
			a.ResetImage()
			shown = frame{}
			w.Send(paint.Event{})
		},
	}

	buttons := sideButtons(a)
	for _, b := range []struct {
		label  string
		group  int
		action string
	}{
		{"-", 1, actSmall},
		{"+", 1, actLarge},
		{"Paste", 2, actPaste},
		{"Save", 2, actSave},
		{"Copy", 2, actCopy},
	} {
		buttons = append(buttons, &toolbarButton{label: b.label, group: b.group, action: actions[b.action]})
	}
	layoutToolbar(buttons)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan frameState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintCancel = nil
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case compositeReady:
			shown = e.frame
			w.Send(paint.Event{})
		case statusEvent:
			say(e.text)
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			p, loaded := a.Params()
			st := frameState{
				width:        width,
				height:       height,
				theme:        a.theme,
				buttons:      buttons,
				hover:        hover,
				pressed:      pressed,
				composite:    shown.current(p, loaded),
				params:       p,
				loaded:       loaded,
				message:      message,
				messageUntil: messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			pt := image.Pt(int(e.X), int(e.Y))
			hit := hitButton(buttons, pt)
			switch {
			case e.Direction == mouse.DirNone:
				if hit != hover {
					hover = hit
					w.Send(paint.Event{})
				}
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				if hit >= 0 {
					pressed = hit
					w.Send(paint.Event{})
					continue
				}
				p, loaded := a.Params()
				if ev, ok := shown.clickEvent(p, loaded, e.X, e.Y, width, height); ok {
					a.ClickOn(shown.bitmap, ev)
				}
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				if pressed >= 0 && pressed == hit {
					buttons[pressed].Activate()
				}
				pressed = -1
				w.Send(paint.Event{})
			}
		case key.Event:
			name := shortcutFor(e)
			if name == actQuit {
				return
			}
			if fn, ok := actions[name]; ok {
				fn()
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
