package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/okulov/attestor/internal/model"
	"golang.org/x/net/html"
)

const (
	defaultWikipediaURL = "https://en.wikipedia.org/w/api.php"
	wikipediaRawLimit   = 12
	wikipediaKeepLimit  = 5
)

// topicAnchors are recurring hot-topic nouns worth anchoring as a
// title-scoped filter in the provider search syntax
var topicAnchors = []string{
	"vaccine", "vaccines", "vaccination", "climate", "covid", "virus",
	"pandemic", "election", "elections", "immigration", "inflation",
	"economy", "cancer", "abortion", "gun", "guns", "war", "energy",
	"tax", "taxes", "crime", "nuclear", "autism", "fluoride", "5g",
}

// omnibusTitle matches near-duplicate "administration/policy-of" pages
var omnibusTitle = regexp.MustCompile(`(?i)(administration|presidency|premiership|cabinet of|policy of|policies of)`)

// WikipediaClient queries the encyclopedic search provider and applies
// overlap-based relevance filtering before returning items.
type WikipediaClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	weights    model.WikipediaWeights
}

// NewWikipediaClient creates an encyclopedic-search client
func NewWikipediaClient(cfg model.HTTPConfig, weights model.WikipediaWeights) *WikipediaClient {
	return &WikipediaClient{
		baseURL:    defaultWikipediaURL,
		userAgent:  cfg.UserAgent,
		httpClient: newHTTPClient(cfg.Timeout),
		weights:    weights,
	}
}

// SetBaseURL overrides the provider endpoint (tests)
func (c *WikipediaClient) SetBaseURL(u string) { c.baseURL = u }

type wikipediaResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type scoredItem struct {
	item  model.CorroborationItem
	score int
}

// Search runs an encyclopedic search for the query. Topics and entities are
// the caller-supplied hint terms used for bonus scoring.
func (c *WikipediaClient) Search(ctx context.Context, query string, topics, entities []string) ([]model.CorroborationItem, error) {
	rewritten, terms := rewriteQuery(query)
	if rewritten == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", rewritten)
	params.Set("srlimit", fmt.Sprintf("%d", wikipediaRawLimit))
	params.Set("format", "json")

	var resp wikipediaResponse
	if err := getJSON(ctx, c.httpClient, c.userAgent, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	floor := len(terms)
	if floor < c.weights.MinFloor {
		floor = c.weights.MinFloor
	}

	var scored []scoredItem
	var unranked []model.CorroborationItem
	for _, raw := range resp.Query.Search {
		snippet := stripMarkup(raw.Snippet)
		item := model.CorroborationItem{
			Title:   raw.Title,
			Snippet: snippet,
			URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(raw.Title, " ", "_")),
			Source:  model.SourceWikipedia,
		}
		unranked = append(unranked, item)

		score := c.scoreResult(raw.Title, snippet, terms, topics, entities)
		if score > floor {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		// With rich topic hints an empty result beats unranked noise;
		// with sparse hints stay mildly permissive.
		if len(topics) >= 2 {
			return nil, nil
		}
		if len(unranked) > 2 {
			unranked = unranked[:2]
		}
		return unranked, nil
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	var items []model.CorroborationItem
	for _, s := range scored {
		items = append(items, s.item)
		if len(items) >= wikipediaKeepLimit {
			break
		}
	}
	return items, nil
}

// scoreResult applies the configured weight table to one raw result
func (c *WikipediaClient) scoreResult(title, snippet string, terms, topics, entities []string) int {
	titleHits := termOverlap(title, terms)
	bodyHits := termOverlap(title+" "+snippet, terms)

	score := titleHits*c.weights.TitleOverlap + bodyHits*c.weights.BodyOverlap

	topicHits := termOverlap(title+" "+snippet, topics)
	entityHits := termOverlap(title+" "+snippet, entities)
	score += (topicHits + entityHits) * c.weights.HintBonus

	if omnibusTitle.MatchString(title) {
		score -= c.weights.OmnibusPenalty
	}
	// Biography pages that only match an entity rarely address the claim
	if entityHits > 0 && topicHits == 0 && titleHits == 0 {
		score -= c.weights.BiographyPenalty
	}
	return score
}

// rewriteQuery turns free text into provider search syntax: stopwords
// dropped, one topic anchor expressed as a title-scoped filter, the rest
// appended unscoped. Returns the rewritten query and the retained terms.
func rewriteQuery(query string) (string, []string) {
	var terms []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		t := strings.Trim(tok, ".,;:!?\"'()[]")
		if len(t) < 3 || wikipediaStopwords[t] || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	if len(terms) == 0 {
		return "", nil
	}

	anchor := ""
	for _, t := range terms {
		for _, a := range topicAnchors {
			if t == a {
				anchor = a
				break
			}
		}
		if anchor != "" {
			break
		}
	}

	if anchor == "" {
		return strings.Join(terms, " "), terms
	}

	var rest []string
	for _, t := range terms {
		if t != anchor {
			rest = append(rest, t)
		}
	}
	rewritten := "intitle:" + anchor
	if len(rest) > 0 {
		rewritten += " " + strings.Join(rest, " ")
	}
	return rewritten, terms
}

var wikipediaStopwords = map[string]bool{
	"the": true, "and": true, "that": true, "this": true, "with": true,
	"for": true, "are": true, "was": true, "were": true, "has": true,
	"have": true, "had": true, "not": true, "but": true, "its": true,
	"from": true, "they": true, "them": true, "his": true, "her": true,
	"will": true, "would": true, "could": true, "should": true,
	"about": true, "because": true, "into": true, "than": true,
}

// stripMarkup drops the provider's snippet highlighting markup, keeping
// only the text content
func stripMarkup(snippet string) string {
	doc, err := html.Parse(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(buf.String()), " ")
}
