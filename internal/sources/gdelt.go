package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/worker"
)

const (
	defaultGDELTURL = "https://api.gdeltproject.org/api/v2/doc/doc"
	gdeltRawLimit   = 20
)

// GDELTClient queries the news archive. Every request passes through the
// shared rate governor. The provider's anti-abuse policy is aggressive, so
// a 429 or a malformed payload is "no data" for this query, never a hard
// failure.
type GDELTClient struct {
	baseURL      string
	userAgent    string
	httpClient   *http.Client
	governor     *worker.Governor
	trustDomains []string
	maxArticles  int
}

// NewGDELTClient creates a news-archive client gated by the governor
func NewGDELTClient(cfg model.HTTPConfig, news model.NewsConfig, governor *worker.Governor) *GDELTClient {
	maxArticles := news.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 5
	}
	return &GDELTClient{
		baseURL:      defaultGDELTURL,
		userAgent:    cfg.UserAgent,
		httpClient:   newHTTPClient(cfg.Timeout),
		governor:     governor,
		trustDomains: news.TrustDomains,
		maxArticles:  maxArticles,
	}
}

// SetBaseURL overrides the provider endpoint (tests)
func (c *GDELTClient) SetBaseURL(u string) { c.baseURL = u }

type gdeltResponse struct {
	Articles []struct {
		URL      string  `json:"url"`
		Title    string  `json:"title"`
		Domain   string  `json:"domain"`
		Language string  `json:"language"`
		SeenDate string  `json:"seendate"`
		Tone     float64 `json:"tone"`
	} `json:"articles"`
}

// Search queries the archive, first scoped to the high-trust domain
// allow-list, then unscoped if that found nothing. Provider sort order
// (most critical tone first) is preserved.
func (c *GDELTClient) Search(ctx context.Context, query string) ([]model.NewsArticle, error) {
	articles, err := c.fetch(ctx, c.scopedQuery(query))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		articles, err = c.fetch(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	var out []model.NewsArticle
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
		if len(out) >= c.maxArticles {
			break
		}
	}
	return out, nil
}

// scopedQuery appends an OR-domain filter over the trust allow-list
func (c *GDELTClient) scopedQuery(query string) string {
	if len(c.trustDomains) == 0 {
		return query
	}
	var filters []string
	for _, d := range c.trustDomains {
		filters = append(filters, "domain:"+d)
	}
	return query + " (" + strings.Join(filters, " OR ") + ")"
}

func (c *GDELTClient) fetch(ctx context.Context, query string) ([]model.NewsArticle, error) {
	if c.governor != nil {
		if err := c.governor.Wait(ctx); err != nil {
			return nil, fmt.Errorf("governor wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", gdeltRawLimit))
	params.Set("sort", "toneasc")

	body, err := fetchBody(ctx, c.httpClient, c.userAgent, c.baseURL+"?"+params.Encode())
	if err != nil {
		if isRateLimited(err) {
			return nil, nil
		}
		var se *statusError
		if errors.As(err, &se) {
			// The provider answers abuse suspicion with odd statuses
			// and HTML bodies; treat all of it as no data.
			return nil, nil
		}
		return nil, err
	}

	var resp gdeltResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// Malformed payload (often an HTML error page)
		return nil, nil
	}

	var articles []model.NewsArticle
	for _, a := range resp.Articles {
		articles = append(articles, model.NewsArticle{
			Title:    a.Title,
			URL:      a.URL,
			Domain:   a.Domain,
			Tone:     a.Tone,
			SeenDate: a.SeenDate,
			Language: a.Language,
		})
	}
	return articles, nil
}
