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
	facebookBaseURL  = "https://www.facebook.com"
	facebookLoginURL = "https://www.facebook.com/login"
	// only rendered inside the logged-in shell
	facebookAuthMarker = `div[role="banner"] [aria-label="Your profile"]`
	facebookFeed       = `div[role="feed"]`

	facebookBaseConfidence = 55
)

// FacebookAdapter extracts buyer leads from group feeds. Targets are
// group slugs or names ("cash buyers dallas"), resolved to
// /groups/<slug> urls.
type FacebookAdapter struct{}

func NewFacebookAdapter() FacebookAdapter {
	return FacebookAdapter{}
}

func (FacebookAdapter) Platform() Platform          { return Facebook }
func (FacebookAdapter) LoginURL() string            { return facebookLoginURL }
func (FacebookAdapter) BaseURL() string             { return facebookBaseURL }
func (FacebookAdapter) AuthenticatedMarker() string { return facebookAuthMarker }

func (FacebookAdapter) targetURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	slug := strings.ToLower(strings.TrimSpace(target))
	slug = strings.ReplaceAll(slug, " ", "")
	return fmt.Sprintf("%s/groups/%s", facebookBaseURL, url.PathEscape(slug))
}

func (a FacebookAdapter) Extract(ctx context.Context, bctx browser.Context, target string, filters Filters) ([]Lead, error) {
	_, span := tracer.Start(ctx, "facebook:Extract")
	defer span.End()
	span.SetAttributes(attribute.String("target", target))

	doc, err := pageDocument(bctx, a.targetURL(target), facebookFeed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load group feed")
		return nil, err
	}

	var leads []Lead
	doc.Find(facebookFeed + ` div[role="article"]`).Each(func(_ int, post *goquery.Selection) {
		text := htmlutil.CleanText(post.Text())
		matched := BuyerIntent(text, filters.Keywords)
		if len(matched) == 0 {
			return
		}

		author := htmlutil.CleanText(post.Find("h3 a, strong a").First().Text())
		if author == "" {
			author = "Unknown Member"
		}

		leads = append(leads, Lead{
			ID:              newLeadID(),
			Platform:        Facebook,
			Source:          "facebook_group",
			OwnerName:       author,
			OwnerPhone:      findPhone(text),
			OwnerEmail:      findEmail(text),
			City:            filters.City,
			State:           filters.State,
			PropertyType:    filters.PropertyType,
			Notes:           strings.Join(matched, ", "),
			ConfidenceScore: intentScore(facebookBaseConfidence, matched),
			ScrapedAt:       timezone.Now().Unix(),
		})
	})

	span.SetAttributes(attribute.Int("leads", len(leads)))
	return leads, nil
}
