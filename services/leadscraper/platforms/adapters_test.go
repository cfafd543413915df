package platforms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/browser/browsertest"
	"leadscraper-backend/lib/telemetry"
)

func setupAdapterTest(t *testing.T) *browsertest.Context {
	cleanup := telemetry.SetupForTesting(t, "test:services/leadscraper/platforms")
	t.Cleanup(cleanup)
	return browsertest.NewContext()
}

func TestFacebookExtract(t *testing.T) {
	bctx := setupAdapterTest(t)
	bctx.Pages["https://www.facebook.com/groups/dallasbuyers"] = `
		<html><body><div role="feed">
			<div role="article">
				<h3><a>Alice Alpha</a></h3>
				<p>Pre-approved and looking to buy a duplex, call (512) 555-0134</p>
			</div>
			<div role="article">
				<h3><a>Someone Else</a></h3>
				<p>Great sunset at the lake today!</p>
			</div>
			<div role="article">
				<p>cash buyer, no profile link, reach me at deals@example.com</p>
			</div>
		</div></body></html>`

	leads, err := NewFacebookAdapter().Extract(
		context.Background(), bctx, "Dallas Buyers", Filters{City: "Dallas", State: "TX"})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	require.Equal(t, "Alice Alpha", leads[0].OwnerName)
	require.Equal(t, "facebook_group", leads[0].Source)
	require.Equal(t, "(512) 555-0134", leads[0].OwnerPhone)
	require.Equal(t, "Dallas", leads[0].City)
	require.Greater(t, leads[0].ConfidenceScore, facebookBaseConfidence)

	// posts without a resolvable author still become leads
	require.Equal(t, "Unknown Member", leads[1].OwnerName)
	require.Equal(t, "deals@example.com", leads[1].OwnerEmail)
}

func TestFacebookExtractTimesOutOnMissingFeed(t *testing.T) {
	bctx := setupAdapterTest(t)
	bctx.MissingSelectors[facebookFeed] = true

	_, err := NewFacebookAdapter().Extract(context.Background(), bctx, "dallas buyers", Filters{})
	require.ErrorIs(t, err, browser.ErrSelectorTimeout)
}

func TestLinkedInExtract(t *testing.T) {
	bctx := setupAdapterTest(t)
	bctx.Pages["https://www.linkedin.com/search/results/content/?keywords=multifamily+cash+buyer"] = `
		<html><body><div class="search-results-container">
			<div class="feed-shared-update-v2">
				<span class="update-components-actor__name">Bob Beta</span>
				<p>Investor looking for off market deals, 1031 exchange ready.</p>
			</div>
			<div class="feed-shared-update-v2">
				<span class="update-components-actor__name">Quiet Poster</span>
				<p>Congratulations on the new role!</p>
			</div>
		</div></body></html>`

	leads, err := NewLinkedInAdapter().Extract(
		context.Background(), bctx, "multifamily cash buyer", Filters{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.Equal(t, "Bob Beta", leads[0].OwnerName)
	require.Equal(t, "linkedin_search", leads[0].Source)
	require.Greater(t, leads[0].ConfidenceScore, linkedinBaseConfidence)
}

func TestZillowExtractWithDirectUrl(t *testing.T) {
	bctx := setupAdapterTest(t)
	target := "https://www.zillow.com/professionals/real-estate-agent-reviews/austin-tx/"
	bctx.Pages[target] = `
		<html><body><div data-testid="results-list">
			<article>
				<h2>Carol Gamma Realty</h2>
				<p>Top buyers agent, cash offer programs available. (737) 555-0199</p>
			</article>
			<article>
				<h3>Dan Delta</h3>
				<p>Listing specialist serving greater Austin.</p>
			</article>
			<article><p>card without a name is skipped</p></article>
		</div></body></html>`

	// a url target bypasses directory resolution entirely, the resolver
	// client never fires
	leads, err := NewZillowAdapter(nil).Extract(context.Background(), bctx, target, Filters{})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	require.Equal(t, "Carol Gamma Realty", leads[0].OwnerName)
	require.Equal(t, "zillow_directory", leads[0].Source)
	require.Equal(t, "(737) 555-0199", leads[0].OwnerPhone)
	require.Greater(t, leads[0].ConfidenceScore, zillowBaseConfidence)

	// plain agent cards still count at base confidence
	require.Equal(t, "Dan Delta", leads[1].OwnerName)
	require.Equal(t, zillowBaseConfidence, leads[1].ConfidenceScore)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(NewFacebookAdapter(), NewLinkedInAdapter())

	adapter, err := registry.ForPlatform(Facebook)
	require.NoError(t, err)
	require.Equal(t, Facebook, adapter.Platform())

	_, err = registry.ForPlatform(Zillow)
	require.Error(t, err)

	_, err = ParsePlatform("myspace")
	require.Error(t, err)
}
