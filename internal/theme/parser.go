package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Parse reads a theme definition, one "Key: #RRGGBB" pair per line.
// Unknown keys are ignored.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := SetField(t, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// SetField assigns a colour to the field named key, ignoring case.
func SetField(t *Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	field := fieldFold(reflect.ValueOf(t).Elem(), key)
	if !field.IsValid() || field.Type() != rgbaType {
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(col))
	return nil
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// Fields returns the colour field names in declaration order.
func Fields() []string {
	typ := reflect.TypeOf(Theme{})
	var names []string
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type == rgbaType {
			names = append(names, typ.Field(i).Name)
		}
	}
	return names
}

// Color returns the colour stored in the named field.
func (t *Theme) Color(name string) (color.RGBA, bool) {
	field := fieldFold(reflect.ValueOf(t).Elem(), name)
	if !field.IsValid() || field.Type() != rgbaType {
		return color.RGBA{}, false
	}
	return field.Interface().(color.RGBA), true
}

func fieldFold(val reflect.Value, key string) reflect.Value {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if strings.EqualFold(typ.Field(i).Name, key) {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}

// LookupColor accepts an SVG colour name such as "lightgray" or a hex value.
func LookupColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return ParseColor(s)
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(c color.Color) string {
	rgba, ok := c.(color.RGBA)
	if !ok {
		rgba = color.RGBAModel.Convert(c).(color.RGBA)
	}
	if rgba.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", rgba.R, rgba.G, rgba.B, rgba.A)
}
