// Package browsertest provides a scripted in-memory implementation of
// browser.Driver for orchestrator and adapter tests.
package browsertest

import (
	"fmt"
	"time"

	"leadscraper-backend/lib/browser"
)

type Driver struct {
	OpenErr     error
	OpenCalls   int
	LastOptions browser.OpenOptions
	Context     *Context
}

func NewDriver() *Driver {
	return &Driver{Context: NewContext()}
}

func (d *Driver) Open(opts browser.OpenOptions) (browser.Context, error) {
	d.OpenCalls++
	d.LastOptions = opts
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	return d.Context, nil
}

// Context replays canned pages and records every interaction. The zero
// value is not usable, construct through NewContext.
type Context struct {
	// Pages maps url -> outer html served after navigating there.
	Pages map[string]string
	// MissingSelectors lists selectors WaitForSelector should time out on.
	MissingSelectors map[string]bool
	// NavigateErrs forces Navigate to fail for specific urls.
	NavigateErrs map[string]error

	Cookies []browser.Cookie
	Local   map[string]string
	Session map[string]string

	// EvaluateFunc, when set, intercepts Evaluate calls.
	EvaluateFunc func(js string, out any) error

	CurrentURL  string
	Navigations []string
	Reloads     int
	Waited      []string
	CloseCalls  int
}

func NewContext() *Context {
	return &Context{
		Pages:            map[string]string{},
		MissingSelectors: map[string]bool{},
		NavigateErrs:     map[string]error{},
		Local:            map[string]string{},
		Session:          map[string]string{},
	}
}

func (c *Context) Navigate(url string) error {
	c.Navigations = append(c.Navigations, url)
	if err := c.NavigateErrs[url]; err != nil {
		return err
	}
	c.CurrentURL = url
	return nil
}

func (c *Context) Reload() error {
	c.Reloads++
	return nil
}

func (c *Context) WaitForSelector(selector string, timeout time.Duration) error {
	c.Waited = append(c.Waited, selector)
	if c.MissingSelectors[selector] {
		return browser.ErrSelectorTimeout
	}
	return nil
}

func (c *Context) SetCookies(cookies []browser.Cookie) error {
	c.Cookies = append(c.Cookies, cookies...)
	return nil
}

func (c *Context) ReadCookies() ([]browser.Cookie, error) {
	return c.Cookies, nil
}

func (c *Context) storage(kind browser.StorageKind) map[string]string {
	if kind == browser.SessionStorage {
		return c.Session
	}
	return c.Local
}

func (c *Context) InjectStorage(kind browser.StorageKind, data map[string]string) error {
	store := c.storage(kind)
	for k, v := range data {
		store[k] = v
	}
	return nil
}

func (c *Context) ReadStorage(kind browser.StorageKind) (map[string]string, error) {
	return c.storage(kind), nil
}

func (c *Context) Evaluate(js string, out any) error {
	if c.EvaluateFunc != nil {
		return c.EvaluateFunc(js, out)
	}
	return nil
}

func (c *Context) OuterHTML() (string, error) {
	html, ok := c.Pages[c.CurrentURL]
	if !ok {
		return "", fmt.Errorf("no canned page for %q", c.CurrentURL)
	}
	return html, nil
}

func (c *Context) Close() error {
	c.CloseCalls++
	return nil
}
