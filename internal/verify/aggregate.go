package verify

import (
	"context"
	"fmt"
	"sync"

	"github.com/okulov/attestor/internal/model"
)

// Error map keys, one per source that can surface a failure. The news
// pipeline never surfaces one: it is best-effort by design.
const (
	errKeyFactChecks = "factChecks"
	errKeyWikipedia  = "wikipedia"
	errKeyWikidata   = "wikidata"
	errKeyPubMed     = "pubmed"
	errKeyRerank     = "rerank"
	errKeyAudit      = "audit"
)

// aggregateResult collects the settled state of all five source pipelines
type aggregateResult struct {
	factChecks model.FactCheckResult
	wikipedia  []model.CorroborationItem
	wikidata   []model.CorroborationItem
	pubmed     []model.CorroborationItem
	news       []model.NewsArticle
	errors     map[string]string
}

// firstNonEmpty tries query variants in order and returns on the first one
// that yields at least one result. Exhausting all variants without results
// is success with an empty slice, not failure.
func firstNonEmpty[T any](ctx context.Context, queries []string, search func(context.Context, string) ([]T, error)) ([]T, error) {
	var lastErr error
	for _, q := range queries {
		items, err := search(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// aggregate fans out to the five source pipelines concurrently and waits
// for every one of them to settle. A hard failure in one pipeline becomes a
// named error-map entry and never blocks, cancels, or delays the others.
func (e *Engine) aggregate(ctx context.Context, pack model.QueryPack, creds model.Credentials) aggregateResult {
	agg := aggregateResult{errors: make(map[string]string)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(key string, err error) {
		mu.Lock()
		agg.errors[key] = err.Error()
		mu.Unlock()
	}

	factCheck := e.newFactCheck(creds.FactCheckKey)
	agg.factChecks.Configured = factCheck.Configured()

	wg.Add(5)

	go func() {
		defer wg.Done()
		if !factCheck.Configured() {
			return
		}
		matches, err := firstNonEmpty(ctx, pack.FactCheck, factCheck.Search)
		if err != nil {
			fail(errKeyFactChecks, fmt.Errorf("fact-check lookup: %w", err))
			return
		}
		agg.factChecks.Matches = matches
	}()

	go func() {
		defer wg.Done()
		items, err := firstNonEmpty(ctx, pack.Wikipedia, func(ctx context.Context, q string) ([]model.CorroborationItem, error) {
			return e.wikipedia.Search(ctx, q, pack.Topics, pack.Entities)
		})
		if err != nil {
			fail(errKeyWikipedia, fmt.Errorf("encyclopedic lookup: %w", err))
			return
		}
		agg.wikipedia = items
	}()

	go func() {
		defer wg.Done()
		items, err := firstNonEmpty(ctx, pack.Wikidata, e.wikidata.Search)
		if err != nil {
			fail(errKeyWikidata, fmt.Errorf("entity lookup: %w", err))
			return
		}
		agg.wikidata = items
	}()

	go func() {
		defer wg.Done()
		items, err := firstNonEmpty(ctx, pack.PubMed, e.pubmed.Search)
		if err != nil {
			fail(errKeyPubMed, fmt.Errorf("literature lookup: %w", err))
			return
		}
		agg.pubmed = items
	}()

	go func() {
		defer wg.Done()
		// Best-effort: failures collapse to an empty result, no error
		articles, _ := firstNonEmpty(ctx, pack.News, e.news.Search)
		agg.news = articles
	}()

	wg.Wait()
	return agg
}
