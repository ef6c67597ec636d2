package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/example/combatpics/internal/acquire"
	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/config"
	"github.com/example/combatpics/internal/crop"
	"github.com/example/combatpics/internal/render"
	"github.com/example/combatpics/internal/theme"
)

// sourceFlags are the acquisition and crop flags shared by compose and open.
type sourceFlags struct {
	file          string
	url           string
	fromClipboard bool
	cropSpec      string
	displaySpec   string
	pixelRatio    float64

	rect    crop.Rect
	display crop.Options
	fetch   config.Fetch
}

func (s *sourceFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&s.file, "file", "", "image file to load, - for stdin")
	fs.StringVar(&s.url, "url", "", "http(s) URL of the image to load")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&s.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
	fs.StringVar(&s.cropSpec, "crop", "", "crop rectangle x,y,w,h in displayed pixels")
	fs.StringVar(&s.displaySpec, "display", "", "size WxH the image was displayed at when choosing -crop")
	fs.Float64Var(&s.pixelRatio, "pixel-ratio", cfg.Crop.PixelRatio, "device pixel ratio applied to the cropped output")
	s.fetch = cfg.Fetch
}

// sources returns how many inputs were given.
func (s *sourceFlags) sources() int {
	n := 0
	for _, set := range []bool{s.file != "", s.url != "", s.fromClipboard} {
		if set {
			n++
		}
	}
	return n
}

func (s *sourceFlags) validate() error {
	if s.sources() > 1 {
		return errors.New("use only one of -file, -url and -from-clipboard")
	}
	if s.cropSpec != "" {
		r, err := crop.ParseRect(s.cropSpec)
		if err != nil {
			return err
		}
		s.rect = r
	}
	if s.displaySpec != "" {
		size, err := parseSize(s.displaySpec)
		if err != nil {
			return fmt.Errorf("display: %w", err)
		}
		s.display.DisplayWidth, s.display.DisplayHeight = float64(size[0]), float64(size[1])
	}
	if s.pixelRatio <= 0 {
		return fmt.Errorf("pixel-ratio must be positive")
	}
	s.display.PixelRatio = s.pixelRatio
	return nil
}

func (s *sourceFlags) blob(ctx context.Context) (*acquire.Blob, error) {
	switch {
	case s.fromClipboard:
		blob, err := acquire.FromClipboard(nil)
		if err != nil {
			return nil, err
		}
		if blob == nil {
			return nil, errors.New("clipboard is not accessible")
		}
		return blob, nil
	case s.url != "":
		client := acquire.NewClient(s.fetch.Timeout)
		return acquire.FromURL(ctx, client, s.url, acquire.WithUserAgent(s.fetch.UserAgent))
	case s.file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return acquire.FromBytes(data, "stdin")
	case s.file != "":
		return acquire.FromFile(s.file)
	}
	return nil, errors.New("no image source given")
}

// bitmap decodes blob and applies the crop. An empty crop keeps the
// original image.
func (s *sourceFlags) bitmap(ctx context.Context, blob *acquire.Blob) (*render.Bitmap, error) {
	b := blob.Bitmap()
	if s.cropSpec == "" {
		return b, nil
	}
	img, err := b.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out, cropped := crop.Apply(img, s.rect, s.display)
	if !cropped {
		log.Printf("crop %v selects no pixels, continuing without cropping", s.rect)
		return b, nil
	}
	return render.NewBitmap(out), nil
}

// bubbleFlags are the bubble parameters shared by compose and open.
type bubbleFlags struct {
	sideSpec   string
	anchorSpec string
	scale      float64
	fillSpec   string

	side   bubble.Side
	anchor *bubble.Point
	fill   color.RGBA
}

func (b *bubbleFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&b.sideSpec, "side", cfg.Bubble.Side, "edge the bubble is attached to (left, top, right, bottom)")
	fs.StringVar(&b.anchorSpec, "anchor", "", "point x,y the bubble's mouth points at (default: image centre)")
	fs.Float64Var(&b.scale, "size", cfg.Bubble.Scale, "bubble size between 0 and 1, in steps of 0.05")
	fs.StringVar(&b.fillSpec, "fill", cfg.Bubble.Fill, "bubble color name or hex value (default: theme bubble color)")
}

func (b *bubbleFlags) validate(th *theme.Theme) error {
	side, err := bubble.ParseSide(b.sideSpec)
	if err != nil {
		return err
	}
	b.side = side
	if b.anchorSpec != "" {
		p, err := parsePoint(b.anchorSpec)
		if err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		b.anchor = &p
	}
	if b.scale < 0 || b.scale > 1 {
		return fmt.Errorf("size %v must be between 0 and 1", b.scale)
	}
	b.fill = bubble.DefaultFill
	if th != nil && th.Bubble.A != 0 {
		b.fill = th.Bubble
	}
	if b.fillSpec != "" {
		c, err := theme.LookupColor(b.fillSpec)
		if err != nil {
			return fmt.Errorf("fill %q: %w", b.fillSpec, err)
		}
		b.fill = c
	}
	return nil
}

func parsePoint(s string) (bubble.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return bubble.Point{}, fmt.Errorf("%q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return bubble.Point{}, fmt.Errorf("%q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return bubble.Point{}, fmt.Errorf("%q: %w", s, err)
	}
	return bubble.Pt(x, y), nil
}

func parseSize(s string) ([2]int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return [2]int{}, fmt.Errorf("%q: want WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return [2]int{}, fmt.Errorf("%q: invalid width", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return [2]int{}, fmt.Errorf("%q: invalid height", s)
	}
	return [2]int{w, h}, nil
}
