package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okulov/attestor/internal/model"
)

const (
	defaultFactCheckURL = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
	maxFactCheckMatches = 12
)

// Verdict keyword classes, checked in order: contradiction first, hedged
// "true" phrases next (they would otherwise match the bare support term),
// then support, then hedge/contest. First match wins; default unknown.
var (
	contradictTerms = []string{
		"false", "fake", "untrue", "incorrect", "pants on fire",
		"misleading", "not true", "wrong", "debunked", "hoax",
		"fabricated", "baseless", "unfounded", "no evidence", "distorts",
	}
	hedgedTrueTerms = []string{
		"half true", "half-true", "partly true", "partially true",
	}
	supportTerms = []string{
		"true", "correct", "accurate", "confirmed", "verified", "legit",
	}
	contestTerms = []string{
		"mixture", "mixed", "partly", "partially", "unproven",
		"unverified", "disputed", "needs context", "missing context",
		"exaggerated", "outdated", "misattributed",
	}
)

// FactCheckClient queries the fact-check registry. Without a credential it
// reports configured=false and makes no request at all.
type FactCheckClient struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewFactCheckClient creates a fact-check registry client
func NewFactCheckClient(apiKey string, cfg model.HTTPConfig) *FactCheckClient {
	return &FactCheckClient{
		apiKey:     apiKey,
		baseURL:    defaultFactCheckURL,
		userAgent:  cfg.UserAgent,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

// SetBaseURL overrides the provider endpoint (tests)
func (c *FactCheckClient) SetBaseURL(u string) { c.baseURL = u }

// Configured reports whether a provider credential is present
func (c *FactCheckClient) Configured() bool { return c.apiKey != "" }

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimDate   string `json:"claimDate"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
			LanguageCode  string `json:"languageCode"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Search looks up claim reviews for the query. Returns an empty slice when
// the provider is reachable but has no matching reviews.
func (c *FactCheckClient) Search(ctx context.Context, query string) ([]model.FactCheckMatch, error) {
	if !c.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	params.Set("pageSize", "10")

	var resp factCheckResponse
	if err := getJSON(ctx, c.httpClient, c.userAgent, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fact-check search: %w", err)
	}

	seen := make(map[string]bool)
	var matches []model.FactCheckMatch
	for _, claim := range resp.Claims {
		for _, review := range claim.ClaimReview {
			publisher := review.Publisher.Name
			if publisher == "" {
				publisher = review.Publisher.Site
			}

			key := review.URL
			if key == "" {
				key = publisher + "|" + review.Title + "|" + review.ReviewDate
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			matches = append(matches, model.FactCheckMatch{
				ClaimText:     claim.Text,
				Claimant:      claim.Claimant,
				Publisher:     publisher,
				ReviewTitle:   review.Title,
				TextualRating: review.TextualRating,
				ReviewURL:     review.URL,
				ReviewDate:    review.ReviewDate,
				LanguageCode:  review.LanguageCode,
				Verdict:       NormalizeVerdict(review.TextualRating, review.Title),
			})
			if len(matches) >= maxFactCheckMatches {
				return matches, nil
			}
		}
	}
	return matches, nil
}

// NormalizeVerdict derives the normalized verdict from a review's textual
// rating and title via ordered keyword-pattern matching
func NormalizeVerdict(rating, title string) model.Verdict {
	text := strings.ToLower(rating + " " + title)
	for _, term := range contradictTerms {
		if strings.Contains(text, term) {
			return model.VerdictContradicted
		}
	}
	for _, term := range hedgedTrueTerms {
		if strings.Contains(text, term) {
			return model.VerdictContested
		}
	}
	for _, term := range supportTerms {
		if strings.Contains(text, term) {
			return model.VerdictSupported
		}
	}
	for _, term := range contestTerms {
		if strings.Contains(text, term) {
			return model.VerdictContested
		}
	}
	return model.VerdictUnknown
}
