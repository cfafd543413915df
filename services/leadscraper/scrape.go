package leadscraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/db"
	"leadscraper-backend/services/leadscraper/platforms"
)

const (
	// SourceLive tags results that came out of a real authenticated
	// browser session.
	SourceLive = "authenticated_browser_session"
	// SourceFallback tags synthetic results produced after a scrape
	// failure. It is the only way consumers can tell the two apart.
	SourceFallback = "fallback_mock_data"

	// DefaultPaceBase / DefaultPaceJitter space out target visits so
	// the traffic pattern doesn't look scripted.
	DefaultPaceBase   = 2 * time.Second
	DefaultPaceJitter = 3 * time.Second
)

// ScrapeData is the payload of a scrape response. Leads have the same
// schema regardless of Source.
type ScrapeData struct {
	Leads          []platforms.Lead `json:"leads"`
	Source         string           `json:"source"`
	TargetsScraped int              `json:"targetsScraped"`
	ScrapedAt      int64            `json:"scrapedAt"`
	Error          string           `json:"error,omitempty"`
}

// scrape replays the stored session into a headless browser and runs
// the platform adapter over each target in order. Any failure past the
// session gate degrades to synthetic leads instead of erroring, the
// caller always gets a usable batch.
func (s *Service) scrape(
	ctx context.Context,
	userID string,
	platform platforms.Platform,
	targets []string,
	filters platforms.Filters,
) (ScrapeData, error) {
	ctx, span := tracer.Start(ctx, "leadscraper:scrape")
	defer span.End()

	session, err := s.store.GetActiveSession(ctx, userID, platform)
	if err != nil {
		span.SetStatus(codes.Error, "no active session")
		s.handleExpiredSession(ctx, userID, platform)
		return ScrapeData{}, err
	}

	adapter, err := s.registry.ForPlatform(platform)
	if err != nil {
		return ScrapeData{}, err
	}

	data := ScrapeData{
		Source:    SourceLive,
		ScrapedAt: timezone.Now().Unix(),
	}
	leads, err := s.scrapeLive(ctx, adapter, session, targets, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "live scrape failed, serving fallback")
		slog.Warn("live scrape failed, generating fallback leads",
			"platform", platform, "targets", len(targets), "err", err)
		data.Leads = GenerateFallbackLeads(platform, filters)
		data.Source = SourceFallback
		data.Error = err.Error()
	} else {
		data.Leads = leads
		data.TargetsScraped = len(targets)
	}

	// Bookkeeping happens for live and fallback batches alike, a
	// degraded scrape still counts as a scrape.
	if err := s.store.TouchLastUsed(ctx, session.ID); err != nil {
		return ScrapeData{}, fmt.Errorf("touch session: %w", err)
	}
	if err := s.store.IncrementScrapeCount(ctx, session.ID); err != nil {
		return ScrapeData{}, fmt.Errorf("increment scrape count: %w", err)
	}
	if err := s.store.MarkScrape(ctx, userID, platform, s.scrapeCooldown); err != nil {
		return ScrapeData{}, fmt.Errorf("mark scrape: %w", err)
	}

	slog.Info("scrape complete",
		"platform", platform,
		"source", data.Source,
		"leads", len(data.Leads))
	return data, nil
}

func (s *Service) scrapeLive(
	ctx context.Context,
	adapter platforms.Adapter,
	session db.Session,
	targets []string,
	filters platforms.Filters,
) ([]platforms.Lead, error) {
	ctx, span := tracer.Start(ctx, "leadscraper:scrapeLive")
	defer span.End()

	artifacts, err := s.store.DecodeArtifacts(session)
	if err != nil {
		return nil, err
	}

	bctx, err := s.driver.Open(browser.OpenOptions{
		Headless:  true,
		UserAgent: browser.RandomUserAgent(),
	})
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			slog.Warn("failed to close scrape browser context", "err", err)
		}
	}()

	// Cookies must be set from the platform's own origin, then a reload
	// picks the whole session up at once.
	if err := bctx.Navigate(adapter.BaseURL()); err != nil {
		return nil, fmt.Errorf("navigate to platform: %w", err)
	}
	if err := bctx.SetCookies(artifacts.Cookies); err != nil {
		return nil, fmt.Errorf("restore cookies: %w", err)
	}
	if err := bctx.InjectStorage(browser.LocalStorage, artifacts.LocalStorage); err != nil {
		return nil, fmt.Errorf("restore local storage: %w", err)
	}
	if err := bctx.InjectStorage(browser.SessionStorage, artifacts.SessionStorage); err != nil {
		return nil, fmt.Errorf("restore session storage: %w", err)
	}
	if err := bctx.Reload(); err != nil {
		return nil, fmt.Errorf("reload with session: %w", err)
	}

	// always a concrete slice so callers never see "leads": null
	leads := []platforms.Lead{}
	for i, target := range targets {
		extracted, err := adapter.Extract(ctx, bctx, target, filters)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("extraction failed on target %q", target))
			return nil, fmt.Errorf("extract %q: %w", target, err)
		}
		leads = append(leads, extracted...)

		if i < len(targets)-1 {
			s.pace()
		}
	}
	return leads, nil
}

// pace sleeps a jittered interval between targets.
func (s *Service) pace() {
	if s.paceBase <= 0 {
		return
	}
	delay := s.paceBase
	if s.paceJitter > 0 {
		extra, err := random.IntRange(0, int(s.paceJitter.Milliseconds())+1)
		if err == nil {
			delay += time.Duration(extra) * time.Millisecond
		}
	}
	time.Sleep(delay)
}
