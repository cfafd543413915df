package platforms

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

// phrases that imply purchase intent or cash-offer capability. Matching
// is fuzzy because social posts are full of typos.
var buyerIntentPhrases = []string{
	"looking to buy",
	"looking for a house",
	"cash buyer",
	"cash offer",
	"buying houses",
	"we buy houses",
	"pre-approved",
	"preapproved",
	"ready to close",
	"actively buying",
	"investor looking",
	"off market deals",
	"1031 exchange",
	"any condition",
	"close fast",
}

const fuzzyThreshold = 0.93

func phraseMatches(text, phrase string) bool {
	if strings.Contains(text, phrase) {
		return true
	}

	words := strings.Fields(text)
	plen := len(strings.Fields(phrase))
	if plen == 0 || len(words) < plen {
		return false
	}
	for i := 0; i+plen <= len(words); i++ {
		window := strings.Join(words[i:i+plen], " ")
		if matchr.JaroWinkler(window, phrase, true) > fuzzyThreshold {
			return true
		}
	}
	return false
}

// BuyerIntent reports the intent phrases matched in text, including any
// caller-supplied keywords. An empty result means the text is not a
// plausible buying lead.
func BuyerIntent(text string, extraKeywords []string) []string {
	lowered := strings.ToLower(text)

	var matched []string
	for _, phrase := range buyerIntentPhrases {
		if phraseMatches(lowered, phrase) {
			matched = append(matched, phrase)
		}
	}
	for _, kw := range extraKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if phraseMatches(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// intentScore converts an adapter's base confidence plus matched phrases
// into a 0-100 score.
func intentScore(base int, matched []string) int {
	score := base + 5*len(matched)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
var phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}`)

func findEmail(text string) string {
	return emailPattern.FindString(text)
}

func findPhone(text string) string {
	return phonePattern.FindString(text)
}
