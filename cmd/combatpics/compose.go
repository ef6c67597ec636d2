package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/example/combatpics/internal/appstate"
	"github.com/example/combatpics/internal/clipboard"
	"github.com/example/combatpics/internal/crop"
	"github.com/example/combatpics/internal/render"
)

// composeCmd renders a single composite without opening a window.
type composeCmd struct {
	*root
	fs          *flag.FlagSet
	src         sourceFlags
	bub         bubbleFlags
	output      string
	toClipboard bool
	dataURL     bool
	stdout      io.Writer
}

var writeClipboard = clipboard.WriteImage

func (c *composeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	r = r.subcommand("compose")
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	c := &composeCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	c.src.register(fs, r.config)
	c.bub.register(fs, r.config)
	fs.StringVar(&c.output, "output", "", "file to write, - for stdout; the format follows the extension")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the composite to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the composite to the clipboard (alias)")
	fs.BoolVar(&c.dataURL, "data-url", false, "print the composite as a PNG data URL")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.src.sources() != 1 {
		return nil, errors.New("compose needs exactly one of -file, -url and -from-clipboard")
	}
	if c.output == "" && !c.toClipboard && !c.dataURL {
		return nil, errors.New("nothing to do: give -output, -to-clipboard or -data-url")
	}
	if err := c.src.validate(); err != nil {
		return nil, err
	}
	if err := c.bub.validate(r.activeTheme); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *composeCmd) Run() error {
	ctx := context.Background()
	blob, err := c.src.blob(ctx)
	if err != nil {
		return err
	}
	bm, err := c.src.bitmap(ctx, blob)
	if err != nil {
		return err
	}
	out, err := c.render(ctx, bm)
	if err != nil {
		return err
	}
	return c.export(out)
}

func (c *composeCmd) render(ctx context.Context, bm *render.Bitmap) (*image.RGBA, error) {
	renderer := render.NewRenderer()
	defer renderer.Close()
	gen := renderer.Load(bm)
	scale, _ := appstate.SnapScale(c.bub.scale)
	out, err := renderer.Render(ctx, render.Job{
		Bitmap:     bm,
		Generation: gen,
		Side:       c.bub.side,
		Anchor:     c.bub.anchor,
		Scale:      scale,
		Fill:       c.bub.fill,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}

func (c *composeCmd) export(img *image.RGBA) error {
	switch c.output {
	case "":
	case "-":
		if err := png.Encode(c.stdout, img); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	default:
		if err := imaging.Save(img, c.output); err != nil {
			return fmt.Errorf("save %s: %w", c.output, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", c.output)
		c.notifySave(c.output)
	}
	if c.dataURL {
		s, err := crop.EncodeDataURL(img)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, s)
	}
	if c.toClipboard {
		if err := writeClipboard(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.notifyCopy(img)
	}
	return nil
}
