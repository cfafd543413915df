package leadscraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/services/leadscraper/db"
	"leadscraper-backend/services/leadscraper/platforms"
)

const (
	// DefaultLoginTimeout is how long a human gets to finish the
	// credential/MFA dance before the attempt is abandoned.
	DefaultLoginTimeout = 5 * time.Minute
	// loginSettleDelay lets post-login redirects and deferred cookie
	// writes finish before state is captured.
	loginSettleDelay = 3 * time.Second

	sessionTokenLength = 32
)

// login opens a visible browser at the platform's login page, waits for
// the authenticated marker to prove the user finished signing in, then
// captures cookies and web storage into a session row. Repeating a
// login while a session is live just replaces the stored artifacts.
func (s *Service) login(ctx context.Context, userID string, platform platforms.Platform, loginURL string) (db.Session, error) {
	ctx, span := tracer.Start(ctx, "leadscraper:login")
	defer span.End()

	adapter, err := s.registry.ForPlatform(platform)
	if err != nil {
		return db.Session{}, err
	}
	if loginURL == "" {
		loginURL = adapter.LoginURL()
	}

	// Headful on purpose: captchas and 2FA need a human in front of
	// the window.
	bctx, err := s.driver.Open(browser.OpenOptions{
		Headless:  false,
		UserAgent: browser.RandomUserAgent(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open browser")
		return db.Session{}, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			slog.Warn("failed to close login browser context", "err", err)
		}
	}()

	if err := bctx.Navigate(loginURL); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login page")
		return db.Session{}, fmt.Errorf("navigate to login page: %w", err)
	}

	err = bctx.WaitForSelector(adapter.AuthenticatedMarker(), s.loginTimeout)
	if errors.Is(err, browser.ErrSelectorTimeout) {
		span.SetStatus(codes.Error, "authentication timed out")
		return db.Session{}, ErrAuthenticationTimeout
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed waiting for authenticated marker")
		return db.Session{}, fmt.Errorf("wait for authenticated marker: %w", err)
	}

	if s.settleDelay > 0 {
		time.Sleep(s.settleDelay)
	}

	artifacts, err := captureArtifacts(bctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to capture session state")
		return db.Session{}, err
	}

	token, err := random.String(sessionTokenLength)
	if err != nil {
		return db.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	row, err := s.store.UpsertSession(ctx, userID, platform, token, artifacts, s.sessionTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist session")
		return db.Session{}, err
	}

	slog.Info("captured browser session",
		"platform", platform,
		"cookies", len(artifacts.Cookies),
		"expiresAt", row.ExpiresAt)
	return row, nil
}

func captureArtifacts(bctx browser.Context) (SessionArtifacts, error) {
	cookies, err := bctx.ReadCookies()
	if err != nil {
		return SessionArtifacts{}, fmt.Errorf("read cookies: %w", err)
	}
	local, err := bctx.ReadStorage(browser.LocalStorage)
	if err != nil {
		return SessionArtifacts{}, fmt.Errorf("read local storage: %w", err)
	}
	session, err := bctx.ReadStorage(browser.SessionStorage)
	if err != nil {
		return SessionArtifacts{}, fmt.Errorf("read session storage: %w", err)
	}
	return SessionArtifacts{
		Cookies:        cookies,
		LocalStorage:   local,
		SessionStorage: session,
	}, nil
}
