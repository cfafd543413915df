package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// ChromeDriver drives a local Chrome/Chromium process through the
// devtools protocol.
type ChromeDriver struct {
	parent context.Context
}

func NewChromeDriver(ctx context.Context) ChromeDriver {
	return ChromeDriver{parent: ctx}
}

func (d ChromeDriver) Open(opts OpenOptions) (Context, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	parent := d.parent
	if parent == nil {
		parent = context.Background()
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// starts the browser process eagerly so a missing binary surfaces
	// here instead of on the first navigation
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &chromeContext{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}, nil
}

type chromeContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func (c *chromeContext) Navigate(url string) error {
	err := chromedp.Run(c.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (c *chromeContext) Reload() error {
	err := chromedp.Run(c.ctx,
		chromedp.Reload(),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}
	return nil
}

func (c *chromeContext) WaitForSelector(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrSelectorTimeout
	}
	return err
}

func (c *chromeContext) SetCookies(cookies []Cookie) error {
	return chromedp.Run(c.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, ck := range cookies {
			p := network.SetCookie(ck.Name, ck.Value).
				WithDomain(ck.Domain).
				WithPath(ck.Path).
				WithHTTPOnly(ck.HttpOnly).
				WithSecure(ck.Secure)
			if ck.Expires > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(ck.Expires, 0))
				p = p.WithExpires(&expires)
			}
			if err := p.Do(ctx); err != nil {
				return fmt.Errorf("failed to set cookie %s: %w", ck.Name, err)
			}
		}
		return nil
	}))
}

func (c *chromeContext) ReadCookies() ([]Cookie, error) {
	var out []Cookie
	err := chromedp.Run(c.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, ck := range cookies {
			out = append(out, Cookie{
				Name:     ck.Name,
				Value:    ck.Value,
				Domain:   ck.Domain,
				Path:     ck.Path,
				Expires:  int64(ck.Expires),
				HttpOnly: ck.HTTPOnly,
				Secure:   ck.Secure,
			})
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return out, nil
}

func (c *chromeContext) InjectStorage(kind StorageKind, data map[string]string) error {
	if len(data) == 0 {
		return nil
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`
		(function() {
			var data = %s;
			for (var key in data) {
				window.%s.setItem(key, data[key]);
			}
			return true;
		})()
	`, serialized, kind)
	return c.Evaluate(script, nil)
}

func (c *chromeContext) ReadStorage(kind StorageKind) (map[string]string, error) {
	script := fmt.Sprintf(`
		(function() {
			var out = {};
			var store = window.%s;
			for (var i = 0; i < store.length; i++) {
				var key = store.key(i);
				out[key] = store.getItem(key);
			}
			return out;
		})()
	`, kind)
	out := map[string]string{}
	if err := c.Evaluate(script, &out); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return out, nil
}

func (c *chromeContext) Evaluate(js string, out any) error {
	return chromedp.Run(c.ctx, chromedp.Evaluate(js, out))
}

func (c *chromeContext) OuterHTML() (string, error) {
	var html string
	err := c.Evaluate(`document.documentElement.outerHTML`, &html)
	return html, err
}

func (c *chromeContext) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}
