package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/htmlutil"
	"leadscraper-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	linkedinBaseURL    = "https://www.linkedin.com"
	linkedinLoginURL   = "https://www.linkedin.com/login"
	linkedinAuthMarker = `#global-nav`
	linkedinResults    = `div.search-results-container`

	linkedinBaseConfidence = 60
)

// LinkedInAdapter extracts leads from content search results. Targets
// are search phrases ("multifamily cash buyer"), resolved to content
// search urls.
type LinkedInAdapter struct{}

func NewLinkedInAdapter() LinkedInAdapter {
	return LinkedInAdapter{}
}

func (LinkedInAdapter) Platform() Platform          { return LinkedIn }
func (LinkedInAdapter) LoginURL() string            { return linkedinLoginURL }
func (LinkedInAdapter) BaseURL() string             { return linkedinBaseURL }
func (LinkedInAdapter) AuthenticatedMarker() string { return linkedinAuthMarker }

func (LinkedInAdapter) targetURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return fmt.Sprintf(
		"%s/search/results/content/?keywords=%s",
		linkedinBaseURL,
		url.QueryEscape(strings.TrimSpace(target)),
	)
}

func (a LinkedInAdapter) Extract(ctx context.Context, bctx browser.Context, target string, filters Filters) ([]Lead, error) {
	_, span := tracer.Start(ctx, "linkedin:Extract")
	defer span.End()
	span.SetAttributes(attribute.String("target", target))

	doc, err := pageDocument(bctx, a.targetURL(target), linkedinResults)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load search results")
		return nil, err
	}

	var leads []Lead
	doc.Find(`div.feed-shared-update-v2, li.search-results__result-item`).Each(func(_ int, post *goquery.Selection) {
		text := htmlutil.CleanText(post.Text())
		matched := BuyerIntent(text, filters.Keywords)
		if len(matched) == 0 {
			return
		}

		author := htmlutil.CleanText(post.Find("span.update-components-actor__name, span.actor-name").First().Text())
		if author == "" {
			author = "Unknown Professional"
		}

		leads = append(leads, Lead{
			ID:              newLeadID(),
			Platform:        LinkedIn,
			Source:          "linkedin_search",
			OwnerName:       author,
			OwnerPhone:      findPhone(text),
			OwnerEmail:      findEmail(text),
			City:            filters.City,
			State:           filters.State,
			PropertyType:    filters.PropertyType,
			Notes:           strings.Join(matched, ", "),
			ConfidenceScore: intentScore(linkedinBaseConfidence, matched),
			ScrapedAt:       timezone.Now().Unix(),
		})
	})

	span.SetAttributes(attribute.Int("leads", len(leads)))
	return leads, nil
}
