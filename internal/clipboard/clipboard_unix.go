//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = fmt.Errorf("%w: initialization requires DISPLAY or WAYLAND_DISPLAY", ErrUnavailable)
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return initErr
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}

// ReadImageData returns the raw bytes of the first requested MIME type the
// clipboard holds. This backend only exposes PNG data.
func ReadImageData(types ...string) ([]byte, string, error) {
	if err := ensureInit(); err != nil {
		return nil, "", err
	}
	if len(types) == 0 {
		types = ImageTypes
	}
	for _, t := range types {
		if t != "image/png" {
			continue
		}
		if data := clipboard.Read(clipboard.FmtImage); len(data) > 0 {
			return data, t, nil
		}
	}
	return nil, "", fmt.Errorf("clipboard does not contain image data")
}
