package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/combatpics/internal/bubble"
	"github.com/example/combatpics/internal/theme"
)

// Parse reads configuration from r. Lines are "key = value" or "key: value"
// grouped under [section] headers; # and // start comments.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:sep]))
		value := strings.TrimSpace(line[sep+1:])
		if unq, err := strconv.Unquote(value); err == nil && strings.HasPrefix(value, "\"") {
			value = unq
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "bubble":
			err = setBubbleField(&cfg.Bubble, key, value)
		case section == "crop":
			err = setCropField(&cfg.Crop, key, value)
		case section == "fetch":
			err = setFetchField(&cfg.Fetch, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: root section: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: section [%s]: %w", lineNo, section, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setBubbleField(b *Bubble, key, value string) error {
	switch key {
	case "side":
		side, err := bubble.ParseSide(value)
		if err != nil {
			return err
		}
		b.Side = side.String()
	case "scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("scale %q must be a number between 0 and 1", value)
		}
		b.Scale = f
	case "fill":
		if _, err := theme.LookupColor(value); err != nil {
			return fmt.Errorf("fill %q: %w", value, err)
		}
		b.Fill = value
	}
	return nil
}

func setCropField(c *Crop, key, value string) error {
	if key != "pixel_ratio" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("pixel_ratio %q must be a positive number", value)
	}
	c.PixelRatio = f
	return nil
}

func setFetchField(f *Fetch, key, value string) error {
	switch key {
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		f.Timeout = d
	case "user_agent":
		f.UserAgent = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
