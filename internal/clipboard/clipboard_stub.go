//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

var errUnsupported = fmt.Errorf("%w: not supported on this platform", ErrUnavailable)

func WriteImage(image.Image) error { return errUnsupported }

func ReadImageData(...string) ([]byte, string, error) { return nil, "", errUnsupported }
