package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/combatpics/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(n *Notifier) *[]sent {
	var got []sent
	n.send = func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		got = append(got, sent{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	}
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Save("out.png")
	n.Copy("", nil)
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}

	var nilNotifier *Notifier
	nilNotifier.Enable(EventSave, true)
	nilNotifier.Save("x")
}

func TestSaveUsesFileAsIcon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.title != "Combat Pics" || s.body != "Saved "+path || s.opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestCopyPreviewIsCleanedUp(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.body != "Copied image to clipboard" {
		t.Fatalf("body = %q", s.body)
	}
	if !s.iconExisted {
		t.Fatalf("preview should exist while sending")
	}
	if _, err := os.Stat(s.opts.IconPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview not removed: %v", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	t.Setenv("COMBATPICS_NOTIFY_TITLE", "Pics")
	t.Setenv("COMBATPICS_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("COMBATPICS_NOTIFY_COPY_TEXT", "")
	prefs := LoadPreferences()
	if prefs.Title != "Pics" || prefs.Templates[EventSave] != "Wrote %s" {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
	if !strings.HasPrefix(prefs.Templates[EventCopy], "Copied") {
		t.Fatalf("copy template should keep default, got %q", prefs.Templates[EventCopy])
	}
}
