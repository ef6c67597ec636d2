package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/example/combatpics/internal/appstate"
	"github.com/example/combatpics/internal/bubble"
)

// sidesCmd prints the bubble geometry for every side of a canvas.
type sidesCmd struct {
	*root
	fs     *flag.FlagSet
	size   [2]int
	bub    bubbleFlags
	stdout io.Writer
}

func (c *sidesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseSidesCmd(args []string, r *root) (*sidesCmd, error) {
	r = r.subcommand("sides")
	fs := flag.NewFlagSet("sides", flag.ExitOnError)
	c := &sidesCmd{root: r, fs: fs, size: [2]int{640, 480}, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	c.bub.register(fs, r.config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		size, err := parseSize(fs.Arg(0))
		if err != nil {
			return nil, err
		}
		c.size = size
	default:
		return nil, &UsageError{of: c}
	}
	if err := c.bub.validate(r.activeTheme); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *sidesCmd) Run() error {
	scale, _ := appstate.SnapScale(c.bub.scale)
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SIDE\tCENTRE\tRADII\tBASE\tAPEX\n")
	for _, side := range bubble.Sides() {
		g := bubble.Layout(c.size[0], c.size[1], side, bubble.WithScale(scale), bubble.WithOptionalAnchor(c.bub.anchor))
		e := g.Ellipse
		fmt.Fprintf(tw, "%s\t%s\t%.1fx%.1f\t%s %s\t%s\n",
			side, point(e.Center), e.RX, e.RY, point(g.Triangle[0]), point(g.Triangle[2]), point(g.Apex()))
	}
	return tw.Flush()
}

func point(p bubble.Point) string {
	return fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
}
