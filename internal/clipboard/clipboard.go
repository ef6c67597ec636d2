// Package clipboard reads and writes images on the system clipboard.
package clipboard

import "errors"

// ErrUnavailable is returned when the clipboard cannot be accessed at all,
// for example without a display or when access is not permitted.
var ErrUnavailable = errors.New("clipboard unavailable")

// ImageTypes lists the MIME types tried when reading an image, in order.
var ImageTypes = []string{"image/gif", "image/jpeg", "image/png"}
