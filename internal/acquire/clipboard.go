package acquire

import (
	"errors"
	"fmt"

	"github.com/example/combatpics/internal/clipboard"
)

// ClipboardReader returns the bytes of the first listed MIME type the
// clipboard holds.
type ClipboardReader func(types ...string) ([]byte, string, error)

// SystemClipboard reads from the desktop clipboard.
var SystemClipboard ClipboardReader = clipboard.ReadImageData

// FromClipboard asks the clipboard for each accepted type in order. When
// the clipboard cannot be accessed it returns (nil, nil) so that callers can
// treat a denied paste as a no-op.
func FromClipboard(read ClipboardReader) (*Blob, error) {
	if read == nil {
		read = SystemClipboard
	}
	data, mt, err := read(AcceptedTypes...)
	if errors.Is(err, clipboard.ErrUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	if !Accepted(mt) {
		return nil, fmt.Errorf("clipboard: %w: %s", ErrUnsupportedType, mt)
	}
	blob, err := newBlob(data, "clipboard")
	if err != nil {
		return nil, err
	}
	return blob, nil
}
