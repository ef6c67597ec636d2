// Package theme holds the colour palettes used by the compositor window.
package theme

import (
	"image/color"
)

// Theme defines the colours of the window chrome and the default bubble fill.
type Theme struct {
	Name string

	Background color.RGBA // behind the picture
	Foreground color.RGBA // status text

	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // the selected side
	ButtonText        color.RGBA
	ButtonBorder      color.RGBA

	// Bubble is the fill used when neither a flag nor the config sets one.
	Bubble color.RGBA

	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 150, 150, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonBorder:      color.RGBA{0, 0, 0, 255},
		Bubble:            color.RGBA{0xcc, 0xcc, 0xcc, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
	}
}
