package platforms

import (
	"fmt"
	"strings"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

var tracer = telemetry.Tracer("leadscraper.platforms")

// pageDocument navigates to url, waits for the content selector and
// parses the rendered page. Selector timeouts and navigation failures
// propagate so the orchestrator can fall back.
func pageDocument(bctx browser.Context, url, contentSelector string) (*goquery.Document, error) {
	if err := bctx.Navigate(url); err != nil {
		return nil, err
	}
	if err := bctx.WaitForSelector(contentSelector, DefaultContentTimeout); err != nil {
		return nil, fmt.Errorf("content selector %q: %w", contentSelector, err)
	}
	html, err := bctx.OuterHTML()
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}
	return doc, nil
}

func newLeadID() string {
	return uuid.NewString()
}
