package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okulov/attestor/internal/model"
)

const (
	defaultPubMedURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	pubmedRawLimit   = 20
	pubmedKeepLimit  = 5
)

var (
	reviewTerms = []string{"systematic review", "meta-analysis", "meta analysis", "umbrella review"}
	qualityTerms = []string{
		"cohort", "randomized", "randomised", "population-based",
		"longitudinal", "nationwide", "controlled trial", "prospective",
	}
	lowSignalTerms = []string{
		"editorial", "case report", "protocol", "comment", "letter",
		"erratum",
	}
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// PubMedClient runs the two-step biomedical search: ID lookup with a
// server-side publication-type filter, then a batched summary fetch, with
// quality scoring over the summaries.
type PubMedClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	weights    model.PubMedWeights
	now        func() time.Time
}

// NewPubMedClient creates a biomedical-literature search client
func NewPubMedClient(cfg model.HTTPConfig, weights model.PubMedWeights) *PubMedClient {
	timeout := cfg.PubMedTimeout
	if timeout <= 0 {
		timeout = cfg.Timeout
	}
	return &PubMedClient{
		baseURL:    defaultPubMedURL,
		userAgent:  cfg.UserAgent,
		httpClient: newHTTPClient(timeout),
		weights:    weights,
		now:        time.Now,
	}
}

// SetBaseURL overrides the provider endpoint (tests)
func (c *PubMedClient) SetBaseURL(u string) { c.baseURL = u }

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummary struct {
	UID      string   `json:"uid"`
	Title    string   `json:"title"`
	PubDate  string   `json:"pubdate"`
	Journal  string   `json:"fulljournalname"`
	PubTypes []string `json:"pubtype"`
}

type scoredSummary struct {
	summary pubmedSummary
	score   int
	year    int
}

// Search runs the esearch+esummary chain and returns the top candidates by
// quality score, then recency
func (c *PubMedClient) Search(ctx context.Context, query string) ([]model.CorroborationItem, error) {
	ids, err := c.searchIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	summaries, err := c.fetchSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenSet(query)
	currentYear := c.now().Year()

	seen := make(map[string]bool)
	var scored []scoredSummary
	for _, s := range summaries {
		title := strings.ToLower(s.Title)
		if strings.Contains(title, "retracted") {
			continue
		}
		normalized := strings.Join(strings.Fields(title), " ")
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		year := parseYear(s.PubDate)
		scored = append(scored, scoredSummary{
			summary: s,
			score:   c.scoreSummary(title, queryTokens, year, currentYear),
			year:    year,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].year > scored[j].year
	})

	var items []model.CorroborationItem
	for _, s := range scored {
		snippet := s.summary.Journal
		if s.summary.PubDate != "" {
			snippet = strings.TrimSpace(snippet + " (" + s.summary.PubDate + ")")
		}
		items = append(items, model.CorroborationItem{
			Title:   s.summary.Title,
			Snippet: snippet,
			URL:     "https://pubmed.ncbi.nlm.nih.gov/" + s.summary.UID + "/",
			Source:  model.SourcePubMed,
		})
		if len(items) >= pubmedKeepLimit {
			break
		}
	}
	return items, nil
}

func (c *PubMedClient) searchIDs(ctx context.Context, query string) ([]string, error) {
	term := query + " NOT editorial[pt] NOT comment[pt] NOT letter[pt]"

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprintf("%d", pubmedRawLimit))
	params.Set("sort", "relevance")

	var resp esearchResponse
	if err := getJSON(ctx, c.httpClient, c.userAgent, c.baseURL+"/esearch.fcgi?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("pubmed id search: %w", err)
	}
	return resp.ESearchResult.IDList, nil
}

func (c *PubMedClient) fetchSummaries(ctx context.Context, ids []string) ([]pubmedSummary, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")

	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := getJSON(ctx, c.httpClient, c.userAgent, c.baseURL+"/esummary.fcgi?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("pubmed summary fetch: %w", err)
	}

	var uids []string
	if raw, ok := resp.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("decode uid list: %w", err)
		}
	}

	var summaries []pubmedSummary
	for _, uid := range uids {
		raw, ok := resp.Result[uid]
		if !ok {
			continue
		}
		var s pubmedSummary
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s.UID == "" {
			s.UID = uid
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// scoreSummary applies the configured quality weights to one title
func (c *PubMedClient) scoreSummary(lowerTitle string, queryTokens map[string]bool, year, currentYear int) int {
	score := 0
	for _, term := range reviewTerms {
		if strings.Contains(lowerTitle, term) {
			score += c.weights.SystematicReview
			break
		}
	}
	for _, term := range qualityTerms {
		if strings.Contains(lowerTitle, term) {
			score += c.weights.QualityTerm
			break
		}
	}
	for _, term := range lowSignalTerms {
		if strings.Contains(lowerTitle, term) {
			score -= c.weights.LowSignalTerm
		}
	}

	if year > 0 && c.weights.RecencyWindow > 0 {
		bonus := year - (currentYear - c.weights.RecencyWindow)
		if bonus > 0 {
			if bonus > c.weights.RecencyWindow {
				bonus = c.weights.RecencyWindow
			}
			score += bonus
		}
	}

	// A title echoing the query near-verbatim is usually the disputed
	// paper itself, not corroboration
	if len(queryTokens) > 0 {
		hits := 0
		for tok := range queryTokens {
			if strings.Contains(lowerTitle, tok) {
				hits++
			}
		}
		if float64(hits)/float64(len(queryTokens)) >= c.weights.EchoOverlap {
			score -= c.weights.EchoPenalty
		}
	}
	return score
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		t := strings.Trim(tok, ".,;:!?\"'()[]")
		if len(t) >= 3 {
			set[t] = true
		}
	}
	return set
}

func parseYear(pubdate string) int {
	match := yearPattern.FindString(pubdate)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}
