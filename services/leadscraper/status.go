package leadscraper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/platforms"
)

// SessionStatus is a read-only report of session and scrape state for
// (user, platform). A row that is expired or logged out reports
// SessionActive false but still exposes its timestamps.
type SessionStatus struct {
	SessionActive bool  `json:"sessionActive"`
	ExpiresAt     int64 `json:"expiresAt,omitempty"`
	LastUsedAt    int64 `json:"lastUsed,omitempty"`
	ScrapeCount   int64 `json:"scrapeCount"`
	LastScrapeAt  int64 `json:"lastScrape,omitempty"`
	NextScrapeAt  int64 `json:"nextScrape,omitempty"`
}

func (s *Service) status(ctx context.Context, userID string, platform platforms.Platform) (SessionStatus, error) {
	ctx, span := tracer.Start(ctx, "leadscraper:status")
	defer span.End()

	var status SessionStatus

	row, err := s.store.GetSession(ctx, userID, platform)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// never logged in, everything stays zero
	case err != nil:
		return SessionStatus{}, fmt.Errorf("get session: %w", err)
	default:
		status.SessionActive = row.IsActive && row.ExpiresAt > timezone.Now().Unix()
		status.ExpiresAt = row.ExpiresAt
		status.LastUsedAt = row.LastUsedAt
		status.ScrapeCount = row.ScrapeCount
	}

	pref, err := s.store.GetPreference(ctx, userID, platform)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return SessionStatus{}, fmt.Errorf("get scrape preference: %w", err)
	}
	if err == nil {
		status.LastScrapeAt = pref.LastScrapeAt
		status.NextScrapeAt = pref.NextScrapeAt
	}
	return status, nil
}

// logout soft-deletes the stored session. The artifacts stay on disk so
// support can inspect them, but every session gate fails afterwards
// until the next login. Logging out with nothing stored is a no-op.
func (s *Service) logout(ctx context.Context, userID string, platform platforms.Platform) error {
	ctx, span := tracer.Start(ctx, "leadscraper:logout")
	defer span.End()

	if err := s.store.Deactivate(ctx, userID, platform); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	slog.Info("deactivated session", "platform", platform)
	return nil
}
