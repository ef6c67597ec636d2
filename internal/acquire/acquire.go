// Package acquire loads source images from files, URLs and the clipboard.
//
// Every source yields a Blob restricted to GIF, JPEG or PNG data. Decoding is
// deferred to render.Decode so that callers receive a pending bitmap
// immediately.
package acquire

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/example/combatpics/internal/render"
)

// ErrUnsupportedType is returned for data that is not a GIF, JPEG or PNG image.
var ErrUnsupportedType = errors.New("unsupported image type")

// AcceptedTypes lists the MIME types a Blob may carry, in the order the clipboard is asked for them.
var AcceptedTypes = []string{"image/gif", "image/jpeg", "image/png"}

// Blob is raw image data together with its MIME type.
type Blob struct {
	Data []byte
	MIME string
}

// Bitmap starts decoding the blob and returns the pending bitmap.
func (b *Blob) Bitmap() *render.Bitmap {
	return render.Decode(bytes.NewReader(b.Data))
}

// Sniff reports the MIME type of data without parameters.
func Sniff(data []byte) string {
	mt, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

// Accepted reports whether mt is one of AcceptedTypes.
func Accepted(mt string) bool {
	for _, t := range AcceptedTypes {
		if t == mt {
			return true
		}
	}
	return false
}

func newBlob(data []byte, source string) (*Blob, error) {
	mt := Sniff(data)
	if !Accepted(mt) {
		return nil, fmt.Errorf("%s: %w: %s", source, ErrUnsupportedType, mt)
	}
	return &Blob{Data: data, MIME: mt}, nil
}

// FromFile reads path and validates its content type.
func FromFile(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return newBlob(data, path)
}

// FromBytes validates data that was obtained elsewhere, for example stdin.
func FromBytes(data []byte, source string) (*Blob, error) {
	if strings.TrimSpace(source) == "" {
		source = "input"
	}
	return newBlob(data, source)
}
