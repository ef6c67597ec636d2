// Package config loads the rc-style configuration file.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/combatpics/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Bubble holds the default speech bubble settings.
type Bubble struct {
	Side  string
	Scale float64
	Fill  string
}

// Crop holds crop stage settings.
type Crop struct {
	PixelRatio float64
}

// Fetch holds URL acquisition settings.
type Fetch struct {
	Timeout   time.Duration
	UserAgent string
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Bubble  Bubble
	Crop    Crop
	Fetch   Fetch
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a Config with defaults. The theme is left empty so that the
// environment can supply one.
func New() *Config {
	return &Config{
		Bubble: Bubble{Side: "right", Scale: 0.25},
		Crop:   Crop{PixelRatio: 1},
		Fetch:  Fetch{Timeout: 30 * time.Second},
		Themes: make(map[string]*theme.Theme),
	}
}

// String returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[bubble]\n")
	fmt.Fprintf(&sb, "side = %s\n", c.Bubble.Side)
	fmt.Fprintf(&sb, "scale = %g\n", c.Bubble.Scale)
	if c.Bubble.Fill != "" {
		fmt.Fprintf(&sb, "fill = %s\n", c.Bubble.Fill)
	}
	sb.WriteString("\n")

	sb.WriteString("[crop]\n")
	fmt.Fprintf(&sb, "pixel_ratio = %g\n", c.Crop.PixelRatio)
	sb.WriteString("\n")

	sb.WriteString("[fetch]\n")
	fmt.Fprintf(&sb, "timeout = %s\n", c.Fetch.Timeout)
	if c.Fetch.UserAgent != "" {
		fmt.Fprintf(&sb, "user_agent = %q\n", c.Fetch.UserAgent)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, field := range theme.Fields() {
			col, _ := t.Color(field)
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.Hex(col))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
