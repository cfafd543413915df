// Package leadscraper implements the authenticated browser-session
// scraping service: interactive platform login, session persistence and
// replay, lead extraction with synthetic fallback, and session status
// reporting.
package leadscraper

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/telemetry"
	"leadscraper-backend/services/leadscraper/platforms"
)

var tracer = telemetry.Tracer("leadscraper.services.leadscraper")

type Options struct {
	// Driver opens browser contexts. Defaults to a chromedp driver
	// rooted in the background context when left nil.
	Driver browser.Driver
	// TargetCache backs adapter-level target resolution caching, nil
	// disables it.
	TargetCache *badger.DB
	Smtp        SmtpConfig

	// Zero values fall back to the package defaults, negative values
	// disable the delay entirely (used by tests).
	LoginTimeout   time.Duration
	SettleDelay    time.Duration
	SessionTTL     time.Duration
	ScrapeCooldown time.Duration
	PaceBase       time.Duration
	PaceJitter     time.Duration
}

type Service struct {
	store    Store
	registry platforms.Registry
	driver   browser.Driver
	smtp     SmtpConfig

	loginTimeout   time.Duration
	settleDelay    time.Duration
	sessionTTL     time.Duration
	scrapeCooldown time.Duration
	paceBase       time.Duration
	paceJitter     time.Duration
}

func NewService(database *sql.DB, options Options) *Service {
	driver := options.Driver
	if driver == nil {
		driver = browser.NewChromeDriver(context.Background())
	}
	s := &Service{
		store: NewStore(database),
		registry: platforms.NewRegistry(
			platforms.NewFacebookAdapter(),
			platforms.NewLinkedInAdapter(),
			platforms.NewZillowAdapter(options.TargetCache),
		),
		driver:         driver,
		smtp:           options.Smtp,
		loginTimeout:   options.LoginTimeout,
		settleDelay:    options.SettleDelay,
		sessionTTL:     options.SessionTTL,
		scrapeCooldown: options.ScrapeCooldown,
		paceBase:       options.PaceBase,
		paceJitter:     options.PaceJitter,
	}
	if s.loginTimeout <= 0 {
		s.loginTimeout = DefaultLoginTimeout
	}
	if s.settleDelay < 0 {
		s.settleDelay = 0
	} else if s.settleDelay == 0 {
		s.settleDelay = loginSettleDelay
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = SessionTTL
	}
	if s.scrapeCooldown <= 0 {
		s.scrapeCooldown = ScrapeCooldown
	}
	if s.paceBase == 0 {
		s.paceBase = DefaultPaceBase
	}
	if s.paceJitter == 0 {
		s.paceJitter = DefaultPaceJitter
	}
	return s
}

// Request is the single entry-point shape shared by all four actions.
type Request struct {
	Action        string            `json:"action"`
	Platform      string            `json:"platform"`
	LoginUrl      string            `json:"loginUrl,omitempty"`
	ScrapeTargets []string          `json:"scrapeTargets,omitempty"`
	Filters       platforms.Filters `json:"filters,omitempty"`
}

type LoginResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	SessionActive bool   `json:"sessionActive"`
	ExpiresAt     int64  `json:"expiresAt"`
}

type ScrapeResponse struct {
	Success   bool               `json:"success"`
	Data      ScrapeData         `json:"data"`
	ScrapedAt int64              `json:"scrapedAt"`
	Platform  platforms.Platform `json:"platform"`
}

type StatusResponse struct {
	Success bool `json:"success"`
	SessionStatus
}

type LogoutResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	SessionActive bool   `json:"sessionActive"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handle dispatches one request for an already-authenticated caller
// identity. Every return value marshals to the documented response
// shape for its action; errors become {success: false, error}.
func (s *Service) Handle(ctx context.Context, userID string, req Request) any {
	ctx, span := tracer.Start(ctx, "leadscraper:Handle")
	defer span.End()

	platform, err := platforms.ParsePlatform(req.Platform)
	if err != nil {
		return ErrorResponse{Error: err.Error()}
	}

	switch req.Action {
	case "login":
		row, err := s.login(ctx, userID, platform, req.LoginUrl)
		if err != nil {
			return ErrorResponse{Error: err.Error()}
		}
		return LoginResponse{
			Success:       true,
			Message:       fmt.Sprintf("%s session saved", platform),
			SessionActive: true,
			ExpiresAt:     row.ExpiresAt,
		}
	case "scrape":
		data, err := s.scrape(ctx, userID, platform, req.ScrapeTargets, req.Filters)
		if err != nil {
			return ErrorResponse{Error: err.Error()}
		}
		return ScrapeResponse{
			Success:   true,
			Data:      data,
			ScrapedAt: data.ScrapedAt,
			Platform:  platform,
		}
	case "status":
		status, err := s.status(ctx, userID, platform)
		if err != nil {
			return ErrorResponse{Error: err.Error()}
		}
		return StatusResponse{Success: true, SessionStatus: status}
	case "logout":
		if err := s.logout(ctx, userID, platform); err != nil {
			return ErrorResponse{Error: err.Error()}
		}
		return LogoutResponse{
			Success:       true,
			Message:       fmt.Sprintf("logged out of %s", platform),
			SessionActive: false,
		}
	}
	return ErrorResponse{Error: fmt.Sprintf("%s: %q", ErrUnsupportedAction, req.Action)}
}
