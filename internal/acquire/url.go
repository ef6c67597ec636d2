package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a whole URL fetch when the client has none.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies fetches made by FromURL.
	DefaultUserAgent = "combatpics/1.0"
	// MaxDownload caps the bytes read from a response body.
	MaxDownload = 64 << 20
)

// ErrTooLarge reports a response body longer than MaxDownload.
var ErrTooLarge = errors.New("response too large")

var maxDownload int64 = MaxDownload

// NewClient returns an HTTP client with the given timeout, falling back to
// DefaultTimeout when timeout is not positive.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// FetchOption customises a URL fetch.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	userAgent string
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) FetchOption {
	return func(c *fetchConfig) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// FromURL downloads rawURL with an HTTP GET. Only http and https URLs are
// accepted. The response must succeed and carry GIF, JPEG or PNG data; the
// sniffed body wins over the Content-Type header.
func FromURL(ctx context.Context, client *http.Client, rawURL string, opts ...FetchOption) (*Blob, error) {
	cfg := fetchConfig{userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&cfg)
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if client == nil {
		client = NewClient(0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.userAgent)
	req.Header.Set("Accept", strings.Join(AcceptedTypes, ", "))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %s", u.Redacted(), resp.Status)
	}
	if resp.ContentLength > maxDownload {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", u.Redacted(), ErrTooLarge, resp.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.Redacted(), err)
	}
	if int64(len(data)) > maxDownload {
		return nil, fmt.Errorf("fetch %s: %w (over %d bytes)", u.Redacted(), ErrTooLarge, maxDownload)
	}
	return newBlob(data, u.Redacted())
}
