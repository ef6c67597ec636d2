package appstate

import (
	"image"
	"image/color"
	"math"
	"sync"
	"testing"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/render"
	"github.com/example/combatpics/internal/theme"
)

func bitmap(w, h int) *render.Bitmap {
	return render.NewBitmap(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func record(a *AppState) *[]Params {
	var got []Params
	a.Subscribe(func(p Params) { got = append(got, p) })
	return &got
}

func TestStartsWithoutImage(t *testing.T) {
	a := New()
	got := record(a)
	if a.Phase() != NoImage {
		t.Fatalf("phase = %v", a.Phase())
	}
	if a.ToggleSide("left") || a.Slide(0.5) || a.Click(ClickEvent{ClientX: 1, ClientY: 1}) || a.StepScale(1) {
		t.Fatal("transitions must be ignored without an image")
	}
	if len(*got) != 0 {
		t.Fatalf("unexpected publishes: %+v", *got)
	}
	if _, ok := a.Params(); ok {
		t.Fatal("Params reported a loaded image")
	}
}

func TestSelectImageResets(t *testing.T) {
	a := New()
	got := record(a)
	first := bitmap(4, 4)
	a.SelectImage(first)
	a.ToggleSide("top")
	a.Slide(0.6)
	a.SetAnchor(bubble.Pt(1, 2))

	second := bitmap(8, 8)
	a.SelectImage(second)
	p, ok := a.Params()
	if !ok {
		t.Fatal("expected an image")
	}
	if p.Bitmap != second || p.Side != bubble.SideRight || p.Anchor != nil || p.Scale != DefaultScale {
		t.Fatalf("state not reset: %+v", p)
	}
	if len(*got) != 5 {
		t.Fatalf("expected 5 publishes, got %d", len(*got))
	}
	if last := (*got)[4]; last.Bitmap != second || last.Anchor != nil {
		t.Fatalf("last publish = %+v", last)
	}
}

func TestWithDefaults(t *testing.T) {
	a := New(WithDefaults(bubble.SideBottom, 0.42), WithImage(bitmap(2, 2)))
	p, ok := a.Params()
	if !ok {
		t.Fatal("WithImage should load the image")
	}
	if p.Side != bubble.SideBottom || p.Scale != 0.4 {
		t.Fatalf("unexpected defaults %+v", p)
	}
	a.ToggleSide("left")
	a.SelectImage(bitmap(3, 3))
	if p, _ := a.Params(); p.Side != bubble.SideBottom {
		t.Fatalf("reset should use configured side, got %v", p.Side)
	}
}

func TestToggleSideIgnoresEmpty(t *testing.T) {
	a := New(WithImage(bitmap(2, 2)))
	got := record(a)
	*got = nil
	for _, v := range []string{"", "  ", "middle"} {
		if a.ToggleSide(v) {
			t.Fatalf("ToggleSide(%q) reported a change", v)
		}
	}
	if len(*got) != 0 {
		t.Fatalf("no-op toggles published %d snapshots", len(*got))
	}
	if p, _ := a.Params(); p.Side != bubble.SideRight {
		t.Fatalf("side changed to %v", p.Side)
	}
	if !a.ToggleSide("Left") {
		t.Fatal("ToggleSide(Left) failed")
	}
	if p, _ := a.Params(); p.Side != bubble.SideLeft {
		t.Fatalf("side = %v", p.Side)
	}
}

func TestSnapScale(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1, 1},
		{0.37, 0.35},
		{0.38, 0.4},
		{0.375, 0.4},
		{0.025, 0.05},
		{0.975, 1},
		{0.05, 0.05},
		{0.999, 1},
		{1.2, 1},
		{-0.3, 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		got, ok := SnapScale(tt.in)
		if !ok || got != tt.want {
			t.Errorf("SnapScale(%v) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := SnapScale(math.NaN()); ok {
		t.Error("SnapScale(NaN) should be rejected")
	}
}

func TestSlideStoresSnappedValue(t *testing.T) {
	a := New(WithImage(bitmap(2, 2)))
	if !a.Slide(0.37) {
		t.Fatal("Slide failed")
	}
	if p, _ := a.Params(); p.Scale != 0.35 {
		t.Fatalf("scale = %v", p.Scale)
	}
	if a.Slide(math.NaN()) {
		t.Fatal("NaN slide should be ignored")
	}
	a.StepScale(2)
	if p, _ := a.Params(); p.Scale != 0.45 {
		t.Fatalf("scale after step = %v", p.Scale)
	}
	a.Slide(1)
	a.StepScale(1)
	if p, _ := a.Params(); p.Scale != 1 {
		t.Fatalf("scale should clamp at 1, got %v", p.Scale)
	}
}

func TestClickTranslatesToLocal(t *testing.T) {
	tests := []struct {
		name string
		ev   ClickEvent
		want bubble.Point
	}{
		{"offset", ClickEvent{ClientX: 50, ClientY: 60, OffsetLeft: 10, OffsetTop: 20}, bubble.Pt(40, 40)},
		{"scrolled", ClickEvent{ClientX: 30, ClientY: 40, ScrollX: 20, ScrollY: 20, OffsetLeft: 10, OffsetTop: 20}, bubble.Pt(40, 40)},
		{"zoomed", ClickEvent{ClientX: 50, ClientY: 60, OffsetLeft: 10, OffsetTop: 20, Zoom: 0.5}, bubble.Pt(80, 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(WithImage(bitmap(200, 200)))
			if !a.Click(tt.ev) {
				t.Fatal("Click reported no change")
			}
			p, _ := a.Params()
			if p.Anchor == nil || *p.Anchor != tt.want {
				t.Fatalf("anchor = %v, want %v", p.Anchor, tt.want)
			}
		})
	}
}

func TestParamsAnchorIsCopy(t *testing.T) {
	a := New(WithImage(bitmap(10, 10)))
	a.SetAnchor(bubble.Pt(3, 4))
	p, _ := a.Params()
	p.Anchor.X = 99
	if q, _ := a.Params(); q.Anchor.X != 3 {
		t.Fatalf("snapshot aliases session state: %v", q.Anchor)
	}
}

func TestSubscribe(t *testing.T) {
	a := New(WithImage(bitmap(2, 2)))
	var calls int
	unsubscribe := a.Subscribe(func(Params) { calls++ })
	if calls != 1 {
		t.Fatalf("expected immediate snapshot, got %d calls", calls)
	}
	a.ToggleSide("top")
	unsubscribe()
	a.ToggleSide("left")
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestResetImage(t *testing.T) {
	a := New(WithImage(bitmap(2, 2)))
	a.ResetImage()
	if a.Phase() != NoImage {
		t.Fatalf("phase = %v", a.Phase())
	}
	if a.ToggleSide("top") {
		t.Fatal("toggle after reset should be ignored")
	}
}

func TestFillPrecedence(t *testing.T) {
	dark := theme.Default()
	dark.Bubble = color.RGBA{1, 2, 3, 255}
	red := color.RGBA{255, 0, 0, 255}

	tests := []struct {
		name string
		opts []Option
		want color.RGBA
	}{
		{"default", nil, bubble.DefaultFill},
		{"theme", []Option{WithTheme(dark)}, dark.Bubble},
		{"explicit", []Option{WithFill(red), WithTheme(dark)}, red},
	}
	for _, tt := range tests {
		a := New(append(tt.opts, WithImage(bitmap(1, 1)))...)
		p, _ := a.Params()
		if p.Fill != tt.want {
			t.Errorf("%s: fill = %v, want %v", tt.name, p.Fill, tt.want)
		}
	}
}

func TestStepScaleConcurrent(t *testing.T) {
	a := New(WithImage(bitmap(2, 2)))
	a.Slide(0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.StepScale(1)
		}()
	}
	wg.Wait()
	if p, _ := a.Params(); p.Scale != 0.5 {
		t.Fatalf("scale after 10 concurrent steps = %v, want 0.5", p.Scale)
	}
}

func TestClickOnReplacedImageIsDropped(t *testing.T) {
	first := bitmap(800, 600)
	a := New(WithImage(first))
	ev := ClickEvent{ClientX: 400, ClientY: 300}
	if !a.ClickOn(first, ev) {
		t.Fatal("click on the current image was dropped")
	}
	second := bitmap(200, 100)
	a.SelectImage(second)
	if a.ClickOn(first, ev) {
		t.Fatal("click on the previous image was applied")
	}
	if p, _ := a.Params(); p.Anchor != nil {
		t.Fatalf("anchor = %v, want none", *p.Anchor)
	}
	if !a.ClickOn(second, ClickEvent{ClientX: 50, ClientY: 40}) {
		t.Fatal("click on the new image was dropped")
	}
	if p, _ := a.Params(); p.Anchor == nil || *p.Anchor != bubble.Pt(50, 40) {
		t.Fatalf("anchor = %v", p.Anchor)
	}
}
