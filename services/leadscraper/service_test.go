package leadscraper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/browser/browsertest"
	"leadscraper-backend/lib/testutil"
	"leadscraper-backend/services/leadscraper/db"
	"leadscraper-backend/services/leadscraper/platforms"

	_ "modernc.org/sqlite"
)

const (
	facebookFeedSelector = `div[role="feed"]`
	facebookAuthSelector = `div[role="banner"] [aria-label="Your profile"]`
)

func newTestService(t *testing.T) (*Service, *browsertest.Driver, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/leadscraper",
		DbSchema: db.Schema,
	})
	driver := browsertest.NewDriver()
	service := NewService(setup.DB, Options{
		Driver:       driver,
		LoginTimeout: time.Second,
		SettleDelay:  -1,
		PaceBase:     -1,
		PaceJitter:   -1,
	})
	return service, driver, cleanup
}

func groupPage(author, post string) string {
	return `<html><body><div role="feed">
		<div role="article"><h3><a>` + author + `</a></h3><p>` + post + `</p></div>
		<div role="article"><h3><a>Someone Else</a></h3><p>Great sunset at the lake today!</p></div>
	</div></body></html>`
}

func doLogin(t *testing.T, service *Service, driver *browsertest.Driver, userID string) LoginResponse {
	t.Helper()
	driver.Context.Cookies = []browser.Cookie{
		{Name: "c_user", Value: "999", Domain: ".facebook.com", Path: "/"},
	}
	res := service.Handle(context.Background(), userID, Request{
		Action:   "login",
		Platform: "facebook",
	})
	login, ok := res.(LoginResponse)
	require.True(t, ok, "unexpected response: %+v", res)
	require.True(t, login.SessionActive)
	return login
}

func TestLoginCapturesSession(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	login := doLogin(t, service, driver, "user@example.com")
	require.True(t, login.Success)
	require.Greater(t, login.ExpiresAt, time.Now().Unix())

	// login runs headful with a realistic user-agent and always
	// releases its context
	require.Equal(t, 1, driver.OpenCalls)
	require.False(t, driver.LastOptions.Headless)
	require.NotEmpty(t, driver.LastOptions.UserAgent)
	require.Equal(t, 1, driver.Context.CloseCalls)
	require.Contains(t, driver.Context.Waited, facebookAuthSelector)

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "status",
		Platform: "facebook",
	})
	status, ok := res.(StatusResponse)
	require.True(t, ok)
	require.True(t, status.SessionActive)
	require.Equal(t, login.ExpiresAt, status.ExpiresAt)
}

func TestLoginTimesOutWithoutMarker(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	driver.Context.MissingSelectors[facebookAuthSelector] = true
	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "login",
		Platform: "facebook",
	})
	errRes, ok := res.(ErrorResponse)
	require.True(t, ok)
	require.Equal(t, ErrAuthenticationTimeout.Error(), errRes.Error)

	// no partial session, and the context was still released
	require.Equal(t, 1, driver.Context.CloseCalls)
	statusRes := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "status",
		Platform: "facebook",
	})
	status, ok := statusRes.(StatusResponse)
	require.True(t, ok)
	require.False(t, status.SessionActive)
	require.Zero(t, status.ExpiresAt)
}

func TestScrapeRequiresActiveSession(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:        "scrape",
		Platform:      "facebook",
		ScrapeTargets: []string{"cash buyers dallas"},
	})
	errRes, ok := res.(ErrorResponse)
	require.True(t, ok)
	require.Equal(t, ErrNoActiveSession.Error(), errRes.Error)

	// the gate fires before any browser is opened
	require.Equal(t, 0, driver.OpenCalls)
}

func TestScrapePreservesTargetOrder(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	doLogin(t, service, driver, "user@example.com")

	driver.Context.Pages["https://www.facebook.com/groups/dallasbuyers"] =
		groupPage("Alice Alpha", "We are looking to buy a duplex, call (512) 555-0134")
	driver.Context.Pages["https://www.facebook.com/groups/austinbuyers"] =
		groupPage("Bob Beta", "Cash buyer here, any condition works, bob.beta@gmail.com")

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:        "scrape",
		Platform:      "facebook",
		ScrapeTargets: []string{"dallas buyers", "austin buyers"},
	})
	scrape, ok := res.(ScrapeResponse)
	require.True(t, ok, "unexpected response: %+v", res)
	require.True(t, scrape.Success)
	require.Equal(t, SourceLive, scrape.Data.Source)
	require.Equal(t, 2, scrape.Data.TargetsScraped)
	require.Empty(t, scrape.Data.Error)

	require.Len(t, scrape.Data.Leads, 2)
	require.Equal(t, "Alice Alpha", scrape.Data.Leads[0].OwnerName)
	require.Equal(t, "Bob Beta", scrape.Data.Leads[1].OwnerName)
	require.Equal(t, "(512) 555-0134", scrape.Data.Leads[0].OwnerPhone)
	require.Equal(t, "bob.beta@gmail.com", scrape.Data.Leads[1].OwnerEmail)

	// scrape replays the captured session into a headless context
	require.True(t, driver.LastOptions.Headless)
	require.GreaterOrEqual(t, driver.Context.Reloads, 1)
	require.Equal(t, 2, driver.Context.CloseCalls)

	statusRes := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "status",
		Platform: "facebook",
	})
	status, ok := statusRes.(StatusResponse)
	require.True(t, ok)
	require.EqualValues(t, 1, status.ScrapeCount)
	require.Greater(t, status.NextScrapeAt, status.LastScrapeAt)
}

func TestScrapeFallsBackOnExtractionFailure(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	doLogin(t, service, driver, "user@example.com")

	// the feed never renders, e.g. the group markup changed
	driver.Context.MissingSelectors[facebookFeedSelector] = true

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:        "scrape",
		Platform:      "facebook",
		ScrapeTargets: []string{"dallas buyers"},
	})
	scrape, ok := res.(ScrapeResponse)
	require.True(t, ok, "unexpected response: %+v", res)

	// failure is recovered, not surfaced, and no target was actually
	// scraped
	require.True(t, scrape.Success)
	require.Equal(t, SourceFallback, scrape.Data.Source)
	require.Zero(t, scrape.Data.TargetsScraped)
	require.NotEmpty(t, scrape.Data.Error)
	require.GreaterOrEqual(t, len(scrape.Data.Leads), 5)
	require.LessOrEqual(t, len(scrape.Data.Leads), 20)
	for _, lead := range scrape.Data.Leads {
		require.NotEmpty(t, lead.ID)
		require.NotEmpty(t, lead.OwnerName)
		require.Equal(t, platforms.Facebook, lead.Platform)
		require.GreaterOrEqual(t, lead.ConfidenceScore, 0)
		require.LessOrEqual(t, lead.ConfidenceScore, 100)
	}

	// counters move even for fallback batches, and the browser context
	// was still released
	require.Equal(t, 2, driver.Context.CloseCalls)
	statusRes := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "status",
		Platform: "facebook",
	})
	status, ok := statusRes.(StatusResponse)
	require.True(t, ok)
	require.EqualValues(t, 1, status.ScrapeCount)
}

func TestScrapeWithoutMatchesStaysWellFormed(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	doLogin(t, service, driver, "user@example.com")

	// the feed renders but nothing in it implies buying intent
	driver.Context.Pages["https://www.facebook.com/groups/quietgroup"] = `
		<html><body><div role="feed">
			<div role="article"><h3><a>Someone Else</a></h3><p>Great sunset at the lake today!</p></div>
		</div></body></html>`

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:        "scrape",
		Platform:      "facebook",
		ScrapeTargets: []string{"quiet group"},
	})
	scrape, ok := res.(ScrapeResponse)
	require.True(t, ok, "unexpected response: %+v", res)
	require.True(t, scrape.Success)
	require.Equal(t, SourceLive, scrape.Data.Source)
	require.Equal(t, 1, scrape.Data.TargetsScraped)

	// an empty batch still marshals as a list, never null
	require.NotNil(t, scrape.Data.Leads)
	require.Empty(t, scrape.Data.Leads)
	raw, err := json.Marshal(scrape.Data)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"leads":[]`)
}

func TestLogoutGatesFutureScrapes(t *testing.T) {
	service, driver, cleanup := newTestService(t)
	defer cleanup()

	doLogin(t, service, driver, "user@example.com")

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "logout",
		Platform: "facebook",
	})
	logout, ok := res.(LogoutResponse)
	require.True(t, ok)
	require.True(t, logout.Success)
	require.False(t, logout.SessionActive)

	// logging out twice is fine
	res = service.Handle(context.Background(), "user@example.com", Request{
		Action:   "logout",
		Platform: "facebook",
	})
	_, ok = res.(LogoutResponse)
	require.True(t, ok)

	scrapeRes := service.Handle(context.Background(), "user@example.com", Request{
		Action:        "scrape",
		Platform:      "facebook",
		ScrapeTargets: []string{"dallas buyers"},
	})
	errRes, ok := scrapeRes.(ErrorResponse)
	require.True(t, ok)
	require.Equal(t, ErrNoActiveSession.Error(), errRes.Error)

	statusRes := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "status",
		Platform: "facebook",
	})
	status, ok := statusRes.(StatusResponse)
	require.True(t, ok)
	require.False(t, status.SessionActive)
	// timestamps survive the soft delete
	require.NotZero(t, status.ExpiresAt)
}

func TestRequestValidation(t *testing.T) {
	service, _, cleanup := newTestService(t)
	defer cleanup()

	res := service.Handle(context.Background(), "user@example.com", Request{
		Action:   "login",
		Platform: "myspace",
	})
	_, ok := res.(ErrorResponse)
	require.True(t, ok)

	res = service.Handle(context.Background(), "user@example.com", Request{
		Action:   "destroy",
		Platform: "facebook",
	})
	errRes, ok := res.(ErrorResponse)
	require.True(t, ok)
	require.Contains(t, errRes.Error, "destroy")
}
