package main

import (
	"context"
	"flag"

	"github.com/example/combatpics/internal/acquire"
	"github.com/example/combatpics/internal/appstate"
)

// openCmd starts the interactive editor.
type openCmd struct {
	*root
	fs     *flag.FlagSet
	src    sourceFlags
	bub    bubbleFlags
	output string
}

func (c *openCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	r = r.subcommand("open")
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	c := &openCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.src.register(fs, r.config)
	c.bub.register(fs, r.config)
	fs.StringVar(&c.output, "output", "", "file Save writes to (default: a timestamped name in the save directory)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	if fs.NArg() == 1 && c.src.sources() == 0 {
		c.src.file = fs.Arg(0)
	}
	if err := c.src.validate(); err != nil {
		return nil, err
	}
	if err := c.bub.validate(r.activeTheme); err != nil {
		return nil, err
	}
	return c, nil
}

// state builds the session. A URL without a crop is fetched after the window
// opens so that a slow host does not delay it.
func (c *openCmd) state(ctx context.Context) (*appstate.AppState, error) {
	scale, _ := appstate.SnapScale(c.bub.scale)
	opts := []appstate.Option{
		appstate.WithDefaults(c.bub.side, scale),
		appstate.WithFill(c.bub.fill),
		appstate.WithTheme(c.activeTheme),
		appstate.WithOutput(c.output),
		appstate.WithSaveDir(c.config.SaveDir),
		appstate.WithSaveListener(c.notifySave),
		appstate.WithCopyListener(c.notifyCopy),
	}
	if c.src.sources() == 1 && !c.deferFetch() {
		blob, err := c.src.blob(ctx)
		if err != nil {
			return nil, err
		}
		bm, err := c.src.bitmap(ctx, blob)
		if err != nil {
			return nil, err
		}
		opts = append(opts, appstate.WithImage(bm))
	}
	a := appstate.New(opts...)
	if c.bub.anchor != nil {
		a.SetAnchor(*c.bub.anchor)
	}
	return a, nil
}

func (c *openCmd) deferFetch() bool {
	return c.src.url != "" && c.src.cropSpec == ""
}

func (c *openCmd) Run() error {
	ctx := context.Background()
	a, err := c.state(ctx)
	if err != nil {
		return err
	}
	if c.deferFetch() {
		go c.fetch(ctx, a)
	}
	a.Run()
	return nil
}

// fetch loads the deferred URL into a. Selecting the image clears the
// anchor, so -anchor is applied once the image is in place.
func (c *openCmd) fetch(ctx context.Context, a *appstate.AppState) bool {
	client := acquire.NewClient(c.src.fetch.Timeout)
	if !a.LoadURL(ctx, client, c.src.url, acquire.WithUserAgent(c.src.fetch.UserAgent)) {
		return false
	}
	if c.bub.anchor != nil {
		a.SetAnchor(*c.bub.anchor)
	}
	return true
}
