// Package platforms holds the per-platform knowledge of the scraping
// subsystem: login entry points, authenticated DOM markers and lead
// extraction rules. New platforms are added by implementing Adapter and
// registering it, the orchestrators never branch per platform.
package platforms

import (
	"context"
	"fmt"
	"time"

	"leadscraper-backend/lib/browser"
)

type Platform string

const (
	Facebook Platform = "facebook"
	LinkedIn Platform = "linkedin"
	Zillow   Platform = "zillow"
)

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case Facebook, LinkedIn, Zillow:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

// Lead is the platform-agnostic output record. It is emitted once per
// scrape call and never persisted by this subsystem, the CRM layer keeps
// what it chooses.
type Lead struct {
	ID              string   `json:"id"`
	Platform        Platform `json:"platform"`
	Source          string   `json:"source"`
	OwnerName       string   `json:"ownerName"`
	OwnerPhone      string   `json:"ownerPhone,omitempty"`
	OwnerEmail      string   `json:"ownerEmail,omitempty"`
	City            string   `json:"city,omitempty"`
	State           string   `json:"state,omitempty"`
	PropertyType    string   `json:"propertyType,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	ConfidenceScore int      `json:"confidenceScore"`
	ScrapedAt       int64    `json:"scrapedAt"`
}

// Filters narrow extraction, all fields optional.
type Filters struct {
	Keywords     []string `json:"keywords,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
}

const (
	// DefaultContentTimeout bounds the wait for a target's content
	// selector during extraction.
	DefaultContentTimeout = 15 * time.Second
)

// Adapter is the capability set every supported platform provides.
type Adapter interface {
	Platform() Platform
	// LoginURL is the page a human completes credentials/MFA on.
	LoginURL() string
	// BaseURL is navigated before session state is injected.
	BaseURL() string
	// AuthenticatedMarker is a selector proven present only post-login.
	AuthenticatedMarker() string
	// Extract resolves a named target to a page, reads matching elements
	// and maps buyer-intent matches into Leads in DOM order.
	Extract(ctx context.Context, bctx browser.Context, target string, filters Filters) ([]Lead, error)
}

type Registry struct {
	adapters map[Platform]Adapter
}

func NewRegistry(adapters ...Adapter) Registry {
	r := Registry{adapters: map[Platform]Adapter{}}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

func (r Registry) ForPlatform(p Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for platform %q", p)
	}
	return a, nil
}
