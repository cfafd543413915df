// Package browser is a thin abstraction over a controllable browser
// instance. It is the only package allowed to touch a real browser
// process, everything above it stays browser-agnostic so orchestrators
// can be tested against a scripted fake.
package browser

import (
	"errors"
	"time"

	fakeua "github.com/EDDYCJY/fake-useragent"
)

// ErrSelectorTimeout is returned by WaitForSelector when the selector
// never appears within the wait window.
var ErrSelectorTimeout = errors.New("timed out waiting for selector")

type StorageKind string

const (
	LocalStorage   StorageKind = "localStorage"
	SessionStorage StorageKind = "sessionStorage"
)

// Cookie is the serialized form persisted in session records. Third-party
// cookie payloads stay opaque, only transport attributes are typed.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Expires  int64  `json:"expires"`
	HttpOnly bool   `json:"http_only"`
	Secure   bool   `json:"secure"`
}

type OpenOptions struct {
	// Headless is false for interactive login so a human can complete
	// 2FA or captcha prompts.
	Headless  bool
	UserAgent string
}

// Driver opens browser contexts. One context is owned by exactly one
// login or scrape invocation and must be closed on every exit path.
type Driver interface {
	Open(opts OpenOptions) (Context, error)
}

type Context interface {
	Navigate(url string) error
	Reload() error
	WaitForSelector(selector string, timeout time.Duration) error
	SetCookies(cookies []Cookie) error
	ReadCookies() ([]Cookie, error)
	InjectStorage(kind StorageKind, data map[string]string) error
	ReadStorage(kind StorageKind) (map[string]string, error)
	Evaluate(js string, out any) error
	OuterHTML() (string, error)
	Close() error
}

// RandomUserAgent picks a realistic desktop user-agent for a fresh
// context, automated defaults are an easy bot-detection signal.
func RandomUserAgent() string {
	ua := fakeua.Computer()
	if ua == "" {
		ua = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	}
	return ua
}
