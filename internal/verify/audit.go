package verify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/util"
)

// Auditor probes evidence URLs for accessibility so a caller can grey out
// dead links. It is an optional pass and never alters the evidence itself.
type Auditor struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	workers    int
}

// NewAuditor creates a link auditor
func NewAuditor(cfg *model.Config) *Auditor {
	workers := cfg.Audit.Workers
	if workers <= 0 {
		workers = 10
	}
	return &Auditor{
		httpClient: &http.Client{
			Timeout: cfg.Audit.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.Audit.Timeout),
		userAgent: cfg.HTTP.UserAgent,
		workers:   workers,
	}
}

// Audit HEAD-checks every distinct evidence URL concurrently and returns
// one record per URL, in collection order.
func (a *Auditor) Audit(ctx context.Context, ev *model.FindingEvidence) []model.LinkAudit {
	urls := collectURLs(ev)
	if len(urls) == 0 {
		return nil
	}

	results := make([]model.LinkAudit, len(urls))
	semaphore := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.LinkAudit{URL: rawURL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = a.probe(ctx, rawURL)
		}(i, u)
	}
	wg.Wait()
	return results
}

func (a *Auditor) probe(ctx context.Context, rawURL string) model.LinkAudit {
	if !a.robots.Allowed(ctx, rawURL) {
		return model.LinkAudit{URL: rawURL, Skipped: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return model.LinkAudit{URL: rawURL, Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return model.LinkAudit{URL: rawURL, Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	return model.LinkAudit{
		URL:        rawURL,
		Accessible: resp.StatusCode >= 200 && resp.StatusCode < 400,
		StatusCode: resp.StatusCode,
	}
}

// collectURLs gathers every evidence URL once, preserving collection order
func collectURLs(ev *model.FindingEvidence) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, m := range ev.FactChecks.Matches {
		add(m.ReviewURL)
	}
	for _, item := range ev.Wikipedia {
		add(item.URL)
	}
	for _, item := range ev.Wikidata {
		add(item.URL)
	}
	for _, item := range ev.PubMed {
		add(item.URL)
	}
	for _, article := range ev.News {
		add(article.URL)
	}
	return urls
}
