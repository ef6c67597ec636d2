package appstate

import (
	"context"
	"image"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/theme"
)

func TestFitView(t *testing.T) {
	tests := []struct {
		name   string
		size   image.Point
		w, h   int
		want   image.Rectangle
		zoom   float64
	}{
		{"natural", image.Pt(400, 300), 800, 300 + toolbarHeight + statusHeight, image.Rect(200, toolbarHeight, 600, toolbarHeight+300), 1},
		{"wide", image.Pt(1600, 600), 800, 600 + toolbarHeight + statusHeight, image.Rect(0, toolbarHeight+150, 800, toolbarHeight+450), 0.5},
	}
	for _, tt := range tests {
		v := fitView(tt.size, tt.w, tt.h)
		if v.rect != tt.want || v.zoom != tt.zoom {
			t.Errorf("%s: fitView = %v @%v, want %v @%v", tt.name, v.rect, v.zoom, tt.want, tt.zoom)
		}
	}
}

func TestViewClick(t *testing.T) {
	v := fitView(image.Pt(1600, 600), 800, 600+toolbarHeight+statusHeight)
	ev, ok := v.click(float32(v.rect.Min.X+10), float32(v.rect.Min.Y+10))
	if !ok {
		t.Fatal("click inside the view was rejected")
	}
	if got := ev.Local(); got != bubble.Pt(20, 20) {
		t.Fatalf("Local() = %v", got)
	}
	if _, ok := v.click(5, 5); ok {
		t.Fatal("click on the toolbar should not hit the view")
	}
}

func TestShortcutFor(t *testing.T) {
	press := func(r rune, code key.Code, mod key.Modifiers) key.Event {
		return key.Event{Rune: r, Code: code, Modifiers: mod, Direction: key.DirPress}
	}
	tests := []struct {
		ev   key.Event
		want string
	}{
		{press('l', key.CodeL, 0), actLeft},
		{press('T', key.CodeT, key.ModShift), actTop},
		{press('r', key.CodeR, 0), actRight},
		{press('b', key.CodeB, 0), actBottom},
		{press('-', key.CodeHyphenMinus, 0), actSmall},
		{press('=', key.CodeEqualSign, 0), actLarge},
		{press('s', key.CodeS, key.ModControl), actSave},
		{press('c', key.CodeC, key.ModControl), actCopy},
		{press('v', key.CodeV, key.ModControl), actPaste},
		{press(-1, key.CodeEscape, 0), actQuit},
		{press('q', key.CodeQ, 0), actQuit},
		{press('s', key.CodeS, 0), ""},
		{key.Event{Rune: 'l', Code: key.CodeL, Direction: key.DirRelease}, ""},
	}
	for _, tt := range tests {
		if got := shortcutFor(tt.ev); got != tt.want {
			t.Errorf("shortcutFor(%q, %v, %v) = %q, want %q", tt.ev.Rune, tt.ev.Code, tt.ev.Modifiers, got, tt.want)
		}
	}
}

func TestLayoutToolbar(t *testing.T) {
	a := New(WithImage(bitmap(10, 10)))
	buttons := append(sideButtons(a), &toolbarButton{label: "+", group: 1})
	layoutToolbar(buttons)
	for i := 1; i < len(buttons); i++ {
		prev, cur := buttons[i-1].Rect(), buttons[i].Rect()
		if cur.Min.X < prev.Max.X+buttonGap {
			t.Fatalf("button %d overlaps %d: %v %v", i, i-1, prev, cur)
		}
	}
	gap := buttons[4].Rect().Min.X - buttons[3].Rect().Max.X
	if gap != groupGap {
		t.Fatalf("group gap = %d", gap)
	}
	if hitButton(buttons, buttons[2].Rect().Min.Add(image.Pt(1, 1))) != 2 {
		t.Fatal("hitButton missed the right button")
	}
	if !buttons[2].active() || buttons[0].active() {
		t.Fatal("only the current side should be active")
	}
	buttons[0].Activate()
	if p, _ := a.Params(); p.Side != bubble.SideLeft {
		t.Fatalf("activating Left set side %v", p.Side)
	}
}

func TestPaintFrame(t *testing.T) {
	th := theme.Default()
	composite := solid(100, 50, blue)
	a := New(WithImage(bitmap(100, 50)))
	p, _ := a.Params()
	buttons := sideButtons(a)
	layoutToolbar(buttons)
	st := frameState{
		width: 300, height: 50 + toolbarHeight + statusHeight,
		theme: th, buttons: buttons, hover: -1, pressed: -1,
		composite: composite, params: p, loaded: true,
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	paintFrame(context.Background(), dst, st)

	if got := dst.RGBAAt(150, toolbarHeight+25); got != blue {
		t.Fatalf("view centre = %v, want composite colour", got)
	}
	if got := dst.RGBAAt(st.width-2, 2); got != th.ToolbarBackground {
		t.Fatalf("toolbar = %v", got)
	}
	if got := dst.RGBAAt(10, toolbarHeight+25); got != th.Background {
		t.Fatalf("margin = %v", got)
	}
	if !strings.Contains(st.status(), "side right") || !strings.Contains(st.status(), "mouth centre") {
		t.Fatalf("status = %q", st.status())
	}
	st.loaded = false
	if !strings.Contains(st.status(), "paste") {
		t.Fatalf("status without image = %q", st.status())
	}
}
