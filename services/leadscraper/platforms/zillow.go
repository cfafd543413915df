package platforms

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"leadscraper-backend/lib/browser"
	"leadscraper-backend/lib/htmlutil"
	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/lib/util/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	zillowBaseURL    = "https://www.zillow.com"
	zillowLoginURL   = "https://www.zillow.com/user/acct/login/"
	zillowAuthMarker = `#user-profile-menu`
	zillowDirectory  = "/professionals/real-estate-agent-reviews/"
	zillowCards      = `div[data-testid="results-list"]`

	zillowBaseConfidence   = 70
	zillowResolverLifetime = 24 * time.Hour
)

// ZillowAdapter extracts leads from professional directory categories.
// Category names ("buyers agents austin") are resolved to directory urls
// through the public index, which sits behind cloudflare, so the
// resolver client carries the bypass round tripper. Resolutions are
// cached.
type ZillowAdapter struct {
	http  *resty.Client
	cache targetCache
}

func NewZillowAdapter(cache *badger.DB) ZillowAdapter {
	client := resty.New()
	client.SetBaseURL(zillowBaseURL)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browser.RandomUserAgent())
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, "leadscraper.platforms.zillow")

	return ZillowAdapter{
		http:  client,
		cache: targetCache{db: cache},
	}
}

func (ZillowAdapter) Platform() Platform          { return Zillow }
func (ZillowAdapter) LoginURL() string            { return zillowLoginURL }
func (ZillowAdapter) BaseURL() string             { return zillowBaseURL }
func (ZillowAdapter) AuthenticatedMarker() string { return zillowAuthMarker }

func (a ZillowAdapter) resolveTarget(ctx context.Context, target string) (string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target, nil
	}

	cached, err := a.cache.get(ctx, Zillow, target)
	if err == nil {
		return cached, nil
	}

	res, err := a.http.R().
		SetContext(ctx).
		Get(zillowDirectory)
	if err != nil {
		return "", fmt.Errorf("failed to fetch directory index: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return "", fmt.Errorf("failed to parse directory index: %w", err)
	}

	wanted := strings.ToLower(strings.TrimSpace(target))
	best := ""
	bestScore := 0.0
	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		score := matchr.JaroWinkler(strings.ToLower(anchor.Name), wanted, true)
		if score > bestScore {
			bestScore = score
			best = anchor.Href
		}
	}
	if best == "" || bestScore < 0.8 {
		// no directory entry close enough, fall back to the slug form
		slug := strings.ReplaceAll(wanted, " ", "-")
		best = fmt.Sprintf("%s%s%s/", zillowBaseURL, zillowDirectory, url.PathEscape(slug))
	} else if strings.HasPrefix(best, "/") {
		best = zillowBaseURL + best
	}

	a.cache.set(ctx, Zillow, target, best, zillowResolverLifetime)
	return best, nil
}

func (a ZillowAdapter) Extract(ctx context.Context, bctx browser.Context, target string, filters Filters) ([]Lead, error) {
	ctx, span := tracer.Start(ctx, "zillow:Extract")
	defer span.End()
	span.SetAttributes(attribute.String("target", target))

	resolved, err := a.resolveTarget(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve target")
		return nil, err
	}

	doc, err := pageDocument(bctx, resolved, zillowCards)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load directory page")
		return nil, err
	}

	var leads []Lead
	doc.Find(zillowCards + ` article`).Each(func(_ int, card *goquery.Selection) {
		text := htmlutil.CleanText(card.Text())

		name := htmlutil.CleanText(card.Find("h2, h3").First().Text())
		if name == "" {
			return
		}

		// directory profiles advertising cash purchases get the intent
		// bump, plain agent cards still count at base confidence
		matched := BuyerIntent(text, filters.Keywords)

		leads = append(leads, Lead{
			ID:              newLeadID(),
			Platform:        Zillow,
			Source:          "zillow_directory",
			OwnerName:       name,
			OwnerPhone:      findPhone(text),
			OwnerEmail:      findEmail(text),
			City:            filters.City,
			State:           filters.State,
			PropertyType:    filters.PropertyType,
			Notes:           strings.Join(matched, ", "),
			ConfidenceScore: intentScore(zillowBaseConfidence, matched),
			ScrapedAt:       timezone.Now().Unix(),
		})
	})

	span.SetAttributes(attribute.Int("leads", len(leads)))
	return leads, nil
}
