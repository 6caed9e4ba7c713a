package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okulov/attestor/internal/model"
)

const (
	defaultWikidataURL = "https://www.wikidata.org/w/api.php"
	wikidataLimit      = 5
)

// WikidataClient does a single-shot entity lookup. Deliberately permissive:
// no relevance filtering beyond provider-native ranking, since entity hits
// are cheap to verify visually.
type WikidataClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewWikidataClient creates a structured-entity search client
func NewWikidataClient(cfg model.HTTPConfig) *WikidataClient {
	return &WikidataClient{
		baseURL:    defaultWikidataURL,
		userAgent:  cfg.UserAgent,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

// SetBaseURL overrides the provider endpoint (tests)
func (c *WikidataClient) SetBaseURL(u string) { c.baseURL = u }

type wikidataResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
		ConceptURI  string `json:"concepturi"`
	} `json:"search"`
}

// Search looks up entities matching the query, top 5
func (c *WikidataClient) Search(ctx context.Context, query string) ([]model.CorroborationItem, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", query)
	params.Set("language", "en")
	params.Set("uselang", "en")
	params.Set("type", "item")
	params.Set("limit", fmt.Sprintf("%d", wikidataLimit))
	params.Set("format", "json")

	var resp wikidataResponse
	if err := getJSON(ctx, c.httpClient, c.userAgent, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("wikidata search: %w", err)
	}

	var items []model.CorroborationItem
	for _, entity := range resp.Search {
		u := entity.ConceptURI
		if u == "" {
			u = "https://www.wikidata.org/wiki/" + entity.ID
		}
		items = append(items, model.CorroborationItem{
			Title:   entity.Label,
			Snippet: entity.Description,
			URL:     u,
			Source:  model.SourceWikidata,
		})
		if len(items) >= wikidataLimit {
			break
		}
	}
	return items, nil
}
