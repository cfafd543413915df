package leadscraper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"leadscraper-backend/services/leadscraper/platforms"
)

func TestFallbackLeadsAreSchemaValid(t *testing.T) {
	for _, platform := range []platforms.Platform{
		platforms.Facebook, platforms.LinkedIn, platforms.Zillow,
	} {
		t.Run(string(platform), func(t *testing.T) {
			leads := GenerateFallbackLeads(platform, platforms.Filters{})
			require.GreaterOrEqual(t, len(leads), 5)
			require.LessOrEqual(t, len(leads), 20)

			profile := fallbackProfiles[platform]
			seen := map[string]bool{}
			for _, lead := range leads {
				require.NotEmpty(t, lead.ID)
				require.False(t, seen[lead.ID], "duplicate lead id")
				seen[lead.ID] = true

				require.Equal(t, platform, lead.Platform)
				require.Equal(t, profile.source, lead.Source)
				require.NotEmpty(t, lead.OwnerName)
				require.NotZero(t, lead.ScrapedAt)
				require.GreaterOrEqual(t, lead.ConfidenceScore, profile.minConfidence)
				require.LessOrEqual(t, lead.ConfidenceScore, profile.maxConfidence)
			}
		})
	}
}

func TestFallbackHonorsFilters(t *testing.T) {
	leads := GenerateFallbackLeads(platforms.Facebook, platforms.Filters{
		City:         "Dallas",
		State:        "TX",
		PropertyType: "multi_family",
	})
	for _, lead := range leads {
		require.Equal(t, "Dallas", lead.City)
		require.Equal(t, "TX", lead.State)
		require.Equal(t, "multi_family", lead.PropertyType)
	}
}

// a fallback lead must serialize to the same field set as a live one,
// the source tag is the only reliable discriminator
func TestFallbackMatchesLiveShape(t *testing.T) {
	live := platforms.Lead{
		ID:              "live-id",
		Platform:        platforms.Facebook,
		Source:          "facebook_group",
		OwnerName:       "Alice Alpha",
		OwnerPhone:      "(512) 555-0134",
		OwnerEmail:      "alice@example.com",
		City:            "Dallas",
		State:           "TX",
		PropertyType:    "single_family",
		Notes:           "looking to buy",
		ConfidenceScore: 60,
		ScrapedAt:       1700000000,
	}
	liveKeys := jsonKeys(t, live)

	leads := GenerateFallbackLeads(platforms.Facebook, platforms.Filters{})
	for _, lead := range leads {
		for key := range jsonKeys(t, lead) {
			require.Contains(t, liveKeys, key)
		}
	}
}

func jsonKeys(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	return keys
}
