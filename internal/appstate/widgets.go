package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/theme"
)

const (
	toolbarHeight = 28
	statusHeight  = 20
	buttonPad     = 6
	buttonGap     = 4
	groupGap      = 14
	checkerSize   = 8
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a clickable toolbar element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// toolbarButton is a labelled button. When active is set and reports true
// the button is drawn as selected.
type toolbarButton struct {
	label  string
	group  int
	rect   image.Rectangle
	active func() bool
	action func()
}

var _ Button = (*toolbarButton)(nil)

func (b *toolbarButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	bg := th.ButtonBackground
	switch {
	case state == StatePressed || (b.active != nil && b.active()):
		bg = th.ButtonActive
	case state == StateHover:
		bg = mix(th.ButtonBackground, th.ButtonActive)
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, th.ButtonBorder, 1)
	drawText(dst, b.rect.Min.X+buttonPad, b.rect.Min.Y+(b.rect.Dy()+9)/2, b.label, th.ButtonText)
}

func (b *toolbarButton) Rect() image.Rectangle { return b.rect }

func (b *toolbarButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *toolbarButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

func mix(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: uint8((int(a.A) + int(b.A)) / 2),
	}
}

func textWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func drawText(dst *image.RGBA, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// layoutToolbar places buttons left to right, leaving a wider gap between
// groups.
func layoutToolbar(buttons []*toolbarButton) {
	x := buttonGap
	for i, b := range buttons {
		if i > 0 && b.group != buttons[i-1].group {
			x += groupGap - buttonGap
		}
		w := textWidth(b.label) + 2*buttonPad
		b.SetRect(image.Rect(x, 3, x+w, toolbarHeight-3))
		x += w + buttonGap
	}
}

func hitButton(buttons []*toolbarButton, pt image.Point) int {
	for i, b := range buttons {
		if pt.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// view is where the composite is shown inside the window.
type view struct {
	rect image.Rectangle
	zoom float64
}

// fitView scales an image of the given size down to fit the area between
// the toolbar and the status bar, centred horizontally. It never enlarges.
func fitView(size image.Point, winW, winH int) view {
	availW := winW
	availH := winH - toolbarHeight - statusHeight
	if size.X <= 0 || size.Y <= 0 || availW <= 0 || availH <= 0 {
		return view{zoom: 1}
	}
	zoom := 1.0
	if zx := float64(availW) / float64(size.X); zx < zoom {
		zoom = zx
	}
	if zy := float64(availH) / float64(size.Y); zy < zoom {
		zoom = zy
	}
	w := int(float64(size.X) * zoom)
	h := int(float64(size.Y) * zoom)
	x0 := (winW - w) / 2
	y0 := toolbarHeight + (availH-h)/2
	return view{rect: image.Rect(x0, y0, x0+w, y0+h), zoom: zoom}
}

// click converts a window position into a ClickEvent for v.
func (v view) click(x, y float32) (ClickEvent, bool) {
	pt := image.Pt(int(x), int(y))
	if v.rect.Empty() || !pt.In(v.rect) {
		return ClickEvent{}, false
	}
	return ClickEvent{
		ClientX:    float64(x),
		ClientY:    float64(y),
		OffsetLeft: float64(v.rect.Min.X),
		OffsetTop:  float64(v.rect.Min.Y),
		Zoom:       v.zoom,
	}, true
}

// Keyboard actions.
const (
	actLeft   = "left"
	actTop    = "top"
	actRight  = "right"
	actBottom = "bottom"
	actSmall  = "smaller"
	actLarge  = "larger"
	actSave   = "save"
	actCopy   = "copy"
	actPaste  = "paste"
	actReset  = "reset"
	actQuit   = "quit"
)

// shortcutFor maps a key press to an action name, or "".
func shortcutFor(e key.Event) string {
	if e.Direction != key.DirPress {
		return ""
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Code {
		case key.CodeS:
			return actSave
		case key.CodeC:
			return actCopy
		case key.CodeV:
			return actPaste
		}
		return ""
	}
	if e.Code == key.CodeEscape {
		return actQuit
	}
	switch unicode.ToLower(e.Rune) {
	case 'l':
		return actLeft
	case 't':
		return actTop
	case 'r':
		return actRight
	case 'b':
		return actBottom
	case '-', '_':
		return actSmall
	case '+', '=':
		return actLarge
	case 'x':
		return actReset
	case 'q':
		return actQuit
	}
	return ""
}

// drawCheckerboard fills rect of dst with alternating squares.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// frameState is everything the painter needs for one window frame.
type frameState struct {
	width, height int
	theme         *theme.Theme
	buttons       []*toolbarButton
	hover         int
	pressed       int
	composite     *image.RGBA
	params        Params
	loaded        bool
	message       string
	messageUntil  time.Time
}

func (st frameState) status() string {
	if st.message != "" && time.Now().Before(st.messageUntil) {
		return st.message
	}
	if !st.loaded {
		return "Ctrl+V pastes an image"
	}
	if st.composite == nil {
		return "decoding..."
	}
	anchor := "centre"
	if st.params.Anchor != nil {
		anchor = fmt.Sprintf("%.0f,%.0f", st.params.Anchor.X, st.params.Anchor.Y)
	}
	return fmt.Sprintf("side %s  size %.2f  mouth %s", st.params.Side, st.params.Scale, anchor)
}

// paintFrame renders st into dst. It returns early when ctx is cancelled.
func paintFrame(ctx context.Context, dst *image.RGBA, st frameState) {
	th := st.theme
	b := dst.Bounds()
	draw.Draw(dst, b, &image.Uniform{th.Background}, image.Point{}, draw.Src)

	if st.composite != nil {
		v := fitView(st.composite.Bounds().Size(), st.width, st.height)
		drawCheckerboard(dst, v.rect, checkerSize, th.CheckerLight, th.CheckerDark)
		if ctx.Err() != nil {
			return
		}
		xdraw.ApproxBiLinear.Scale(dst, v.rect, st.composite, st.composite.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	bar := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+toolbarHeight)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, btn := range st.buttons {
		state := StateDefault
		switch i {
		case st.pressed:
			state = StatePressed
		case st.hover:
			state = StateHover
		}
		btn.Draw(dst, state, th)
	}

	status := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, status, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawText(dst, status.Min.X+buttonPad, status.Max.Y-5, st.status(), th.Foreground)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st frameState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	buf, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer buf.Release()

	paintFrame(ctx, buf.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}

func sideButtons(a *AppState) []*toolbarButton {
	var out []*toolbarButton
	for _, side := range bubble.Sides() {
		side := side
		name := side.String()
		out = append(out, &toolbarButton{
			label: string(unicode.ToUpper(rune(name[0]))) + name[1:],
			group: 0,
			active: func() bool {
				p, ok := a.Params()
				return ok && p.Side == side
			},
			action: func() { a.SetSide(side) },
		})
	}
	return out
}
