package leadscraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/testutil"
	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/db"
	"leadscraper-backend/services/leadscraper/platforms"

	_ "modernc.org/sqlite"
)

func testArtifacts() SessionArtifacts {
	return SessionArtifacts{
		Cookies: []browser.Cookie{
			{Name: "c_user", Value: "12345", Domain: ".facebook.com", Path: "/"},
		},
		LocalStorage:   map[string]string{"device_id": "abc"},
		SessionStorage: map[string]string{"tab": "1"},
	}
}

func TestUpsertSessionReplaces(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/leadscraper/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	first, err := store.UpsertSession(ctx, "user", platforms.Facebook, "token-1", testArtifacts(), time.Hour)
	require.NoError(t, err)
	require.True(t, first.IsActive)

	second, err := store.UpsertSession(ctx, "user", platforms.Facebook, "token-2", testArtifacts(), time.Hour*2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "token-2", second.SessionToken)
	require.Greater(t, second.ExpiresAt, first.ExpiresAt)

	row, err := store.GetActiveSession(ctx, "user", platforms.Facebook)
	require.NoError(t, err)
	require.Equal(t, "token-2", row.SessionToken)

	artifacts, err := store.DecodeArtifacts(row)
	require.NoError(t, err)
	require.Len(t, artifacts.Cookies, 1)
	require.Equal(t, "c_user", artifacts.Cookies[0].Name)
	require.Equal(t, "abc", artifacts.LocalStorage["device_id"])
}

func TestGetActiveSessionEnforcesExpiry(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/leadscraper/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.GetActiveSession(ctx, "user", platforms.LinkedIn)
	require.ErrorIs(t, err, ErrNoActiveSession)

	_, err = store.UpsertSession(ctx, "user", platforms.LinkedIn, "token", testArtifacts(), -time.Hour)
	require.NoError(t, err)

	_, err = store.GetActiveSession(ctx, "user", platforms.LinkedIn)
	require.ErrorIs(t, err, ErrNoActiveSession)

	// the expired row is treated as absent, not deleted
	row, err := store.GetSession(ctx, "user", platforms.LinkedIn)
	require.NoError(t, err)
	require.True(t, row.IsActive)
	require.LessOrEqual(t, row.ExpiresAt, timezone.Now().Unix())

	// a fresh login brings the slot back
	_, err = store.UpsertSession(ctx, "user", platforms.LinkedIn, "token-2", testArtifacts(), time.Hour)
	require.NoError(t, err)
	_, err = store.GetActiveSession(ctx, "user", platforms.LinkedIn)
	require.NoError(t, err)
}

func TestDeactivateIsSoftAndIdempotent(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/leadscraper/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	// deactivating a session that never existed is a no-op
	require.NoError(t, store.Deactivate(ctx, "user", platforms.Zillow))

	_, err := store.UpsertSession(ctx, "user", platforms.Zillow, "token", testArtifacts(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Deactivate(ctx, "user", platforms.Zillow))
	require.NoError(t, store.Deactivate(ctx, "user", platforms.Zillow))

	_, err = store.GetActiveSession(ctx, "user", platforms.Zillow)
	require.ErrorIs(t, err, ErrNoActiveSession)

	// history survives, only the active flag flips
	row, err := store.GetSession(ctx, "user", platforms.Zillow)
	require.NoError(t, err)
	require.False(t, row.IsActive)
	require.Equal(t, "token", row.SessionToken)
}

func TestScrapeBookkeeping(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/leadscraper/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	row, err := store.UpsertSession(ctx, "user", platforms.Facebook, "token", testArtifacts(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.IncrementScrapeCount(ctx, row.ID))
	require.NoError(t, store.IncrementScrapeCount(ctx, row.ID))
	require.NoError(t, store.TouchLastUsed(ctx, row.ID))

	updated, err := store.GetSession(ctx, "user", platforms.Facebook)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated.ScrapeCount)
	require.GreaterOrEqual(t, updated.LastUsedAt, row.LastUsedAt)

	require.NoError(t, store.MarkScrape(ctx, "user", platforms.Facebook, time.Hour*48))
	require.NoError(t, store.MarkScrape(ctx, "user", platforms.Facebook, time.Hour*48))

	pref, err := store.GetPreference(ctx, "user", platforms.Facebook)
	require.NoError(t, err)
	require.EqualValues(t, 2, pref.ScrapeCount)
	require.Equal(t, pref.LastScrapeAt+int64((time.Hour*48).Seconds()), pref.NextScrapeAt)
}
