package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/example/combatpics/internal/acquire"
	"github.com/example/combatpics/internal/clipboard"
)

// ErrNothingToExport is returned when no composite has been rendered yet.
var ErrNothingToExport = errors.New("no composite rendered yet")

var writeClipboard = clipboard.WriteImage

// OutputPath returns where Save writes at time now.
func (a *AppState) OutputPath(now time.Time) string {
	if a.Output != "" {
		return a.Output
	}
	name := fmt.Sprintf("combatpic-%s.png", now.Format("20060102-150405"))
	if a.SaveDir == "" {
		return name
	}
	return filepath.Join(a.SaveDir, name)
}

// Save writes img to OutputPath in the format implied by its extension and
// notifies the save listener.
func (a *AppState) Save(img image.Image) (string, error) {
	if img == nil {
		return "", ErrNothingToExport
	}
	path := a.OutputPath(time.Now())
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("save: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if a.onSave != nil {
		a.onSave(path)
	}
	return path, nil
}

// Copy places img on the clipboard and notifies the copy listener.
func (a *AppState) Copy(img image.Image) error {
	if img == nil {
		return ErrNothingToExport
	}
	if err := writeClipboard(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if a.onCopy != nil {
		a.onCopy(img)
	}
	return nil
}

// Paste selects the image held by the clipboard. It reports false without
// an error when the clipboard is not accessible.
func (a *AppState) Paste(read acquire.ClipboardReader) (bool, error) {
	blob, err := acquire.FromClipboard(read)
	if err != nil {
		return false, err
	}
	if blob == nil {
		return false, nil
	}
	a.SelectImage(blob.Bitmap())
	return true, nil
}

// LoadURL fetches rawURL and selects the result. Failures are logged and
// leave the session as it was.
func (a *AppState) LoadURL(ctx context.Context, client *http.Client, rawURL string, opts ...acquire.FetchOption) bool {
	blob, err := acquire.FromURL(ctx, client, rawURL, opts...)
	if err != nil {
		log.Printf("load url: %v", err)
		return false
	}
	a.SelectImage(blob.Bitmap())
	return true
}
