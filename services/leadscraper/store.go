package leadscraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/db"
	"leadscraper-backend/services/leadscraper/platforms"
)

const (
	// SessionTTL is how long a captured browser session stays usable
	// before a fresh login is required.
	SessionTTL = 7 * 24 * time.Hour
	// ScrapeCooldown spaces out successive scrapes of the same
	// platform for a user.
	ScrapeCooldown = 48 * time.Hour
)

// SessionArtifacts is everything captured from the browser after a
// successful login, and everything replayed into a new tab before a
// scrape.
type SessionArtifacts struct {
	Cookies        []browser.Cookie  `json:"cookies"`
	LocalStorage   map[string]string `json:"local_storage"`
	SessionStorage map[string]string `json:"session_storage"`
}

// Store wraps the sessions and scrape_preferences tables.
type Store struct {
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{qry: db.New(database)}
}

// UpsertSession writes the captured artifacts for (user, platform),
// replacing whatever session existed before. The replaced row's id is
// kept so repeated logins don't grow the table.
func (s Store) UpsertSession(
	ctx context.Context,
	userID string,
	platform platforms.Platform,
	token string,
	artifacts SessionArtifacts,
	ttl time.Duration,
) (db.Session, error) {
	ctx, span := tracer.Start(ctx, "store:UpsertSession")
	defer span.End()

	cookies, err := json.Marshal(artifacts.Cookies)
	if err != nil {
		return db.Session{}, fmt.Errorf("marshal cookies: %w", err)
	}
	local, err := json.Marshal(artifacts.LocalStorage)
	if err != nil {
		return db.Session{}, fmt.Errorf("marshal local storage: %w", err)
	}
	session, err := json.Marshal(artifacts.SessionStorage)
	if err != nil {
		return db.Session{}, fmt.Errorf("marshal session storage: %w", err)
	}

	now := timezone.Now()
	row, err := s.qry.UpsertSession(ctx, db.UpsertSessionParams{
		UserID:         userID,
		Platform:       string(platform),
		SessionToken:   token,
		Cookies:        string(cookies),
		LocalStorage:   string(local),
		SessionStorage: string(session),
		CreatedAt:      now.Unix(),
		ExpiresAt:      now.Add(ttl).Unix(),
		LastUsedAt:     now.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert session")
		return db.Session{}, fmt.Errorf("upsert session: %w", err)
	}
	return row, nil
}

// GetActiveSession returns the stored session for (user, platform) if
// it is both active and unexpired, otherwise ErrNoActiveSession.
// Expiry is enforced here at read time, the row itself is left alone.
func (s Store) GetActiveSession(ctx context.Context, userID string, platform platforms.Platform) (db.Session, error) {
	row, err := s.qry.GetSession(ctx, db.GetSessionParams{
		UserID:   userID,
		Platform: string(platform),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return db.Session{}, ErrNoActiveSession
	}
	if err != nil {
		return db.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !row.IsActive || row.ExpiresAt <= timezone.Now().Unix() {
		return db.Session{}, ErrNoActiveSession
	}
	return row, nil
}

// GetSession returns the stored row regardless of validity. Status
// reporting wants to know about expired and logged-out sessions too.
func (s Store) GetSession(ctx context.Context, userID string, platform platforms.Platform) (db.Session, error) {
	return s.qry.GetSession(ctx, db.GetSessionParams{
		UserID:   userID,
		Platform: string(platform),
	})
}

// DecodeArtifacts unpacks the serialized browser state of a row.
func (s Store) DecodeArtifacts(row db.Session) (SessionArtifacts, error) {
	var artifacts SessionArtifacts
	if err := json.Unmarshal([]byte(row.Cookies), &artifacts.Cookies); err != nil {
		return SessionArtifacts{}, fmt.Errorf("unmarshal cookies: %w", err)
	}
	if err := json.Unmarshal([]byte(row.LocalStorage), &artifacts.LocalStorage); err != nil {
		return SessionArtifacts{}, fmt.Errorf("unmarshal local storage: %w", err)
	}
	if err := json.Unmarshal([]byte(row.SessionStorage), &artifacts.SessionStorage); err != nil {
		return SessionArtifacts{}, fmt.Errorf("unmarshal session storage: %w", err)
	}
	return artifacts, nil
}

func (s Store) TouchLastUsed(ctx context.Context, id int64) error {
	return s.qry.TouchLastUsed(ctx, db.TouchLastUsedParams{
		LastUsedAt: timezone.Now().Unix(),
		ID:         id,
	})
}

func (s Store) IncrementScrapeCount(ctx context.Context, id int64) error {
	return s.qry.IncrementScrapeCount(ctx, id)
}

// Deactivate soft-deletes the session for (user, platform). The row
// and its artifacts stay in place so a later login reuses the slot.
// Missing rows are not an error, logout is idempotent.
func (s Store) Deactivate(ctx context.Context, userID string, platform platforms.Platform) error {
	return s.qry.DeactivateSession(ctx, db.DeactivateSessionParams{
		UserID:   userID,
		Platform: string(platform),
	})
}

// MarkScrape records a completed scrape and schedules the next
// eligible one cooldown from now.
func (s Store) MarkScrape(ctx context.Context, userID string, platform platforms.Platform, cooldown time.Duration) error {
	now := timezone.Now()
	return s.qry.UpsertScrapePreference(ctx, db.UpsertScrapePreferenceParams{
		UserID:       userID,
		Platform:     string(platform),
		LastScrapeAt: now.Unix(),
		NextScrapeAt: now.Add(cooldown).Unix(),
	})
}

func (s Store) GetPreference(ctx context.Context, userID string, platform platforms.Platform) (db.ScrapePreference, error) {
	return s.qry.GetScrapePreference(ctx, db.GetScrapePreferenceParams{
		UserID:   userID,
		Platform: string(platform),
	})
}
