// Package verify implements the evidence cross-verification engine: it fans
// a finding's query pack out to five provider adapters, classifies the
// settled evidence, and optionally reranks it with an LLM capability.
package verify

import (
	"context"
	"sync"
	"time"

	"github.com/okulov/attestor/internal/llm"
	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/query"
	"github.com/okulov/attestor/internal/sources"
	"github.com/okulov/attestor/internal/worker"
)

type factCheckSearcher interface {
	Configured() bool
	Search(ctx context.Context, q string) ([]model.FactCheckMatch, error)
}

type encyclopedicSearcher interface {
	Search(ctx context.Context, q string, topics, entities []string) ([]model.CorroborationItem, error)
}

type itemSearcher interface {
	Search(ctx context.Context, q string) ([]model.CorroborationItem, error)
}

type newsSearcher interface {
	Search(ctx context.Context, q string) ([]model.NewsArticle, error)
}

// Engine is the stateless verification engine. The only shared mutable
// state behind it is the news-archive rate governor, which is process-wide
// by necessity. Safe for concurrent use.
type Engine struct {
	cfg       *model.Config
	wikipedia encyclopedicSearcher
	wikidata  itemSearcher
	pubmed    itemSearcher
	news      newsSearcher

	// Credential-bearing collaborators are built per call; factories are
	// fields so tests can substitute them.
	newFactCheck func(key string) factCheckSearcher
	newRanker    func(key string) (llm.Provider, error)

	now func() time.Time
}

var (
	governorOnce sync.Once
	newsGovernor *worker.Governor
)

// sharedGovernor returns the process-wide news-archive governor. The
// provider's spacing requirement spans every engine in the process, so the
// first configured interval wins.
func sharedGovernor(minInterval time.Duration) *worker.Governor {
	governorOnce.Do(func() {
		newsGovernor = worker.NewGovernor(minInterval)
	})
	return newsGovernor
}

// NewEngine wires the real provider adapters
func NewEngine(cfg *model.Config) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	governor := sharedGovernor(cfg.News.MinInterval)

	return &Engine{
		cfg:       cfg,
		wikipedia: sources.NewWikipediaClient(cfg.HTTP, cfg.Wikipedia),
		wikidata:  sources.NewWikidataClient(cfg.HTTP),
		pubmed:    sources.NewPubMedClient(cfg.HTTP, cfg.PubMed),
		news:      sources.NewGDELTClient(cfg.HTTP, cfg.News, governor),
		newFactCheck: func(key string) factCheckSearcher {
			return sources.NewFactCheckClient(key, cfg.HTTP)
		},
		newRanker: func(key string) (llm.Provider, error) {
			return llm.NewProvider(llm.Config{
				Provider:  cfg.Rerank.Provider,
				Model:     cfg.Rerank.Model,
				APIKey:    key,
				Timeout:   cfg.Rerank.Timeout,
				MaxTokens: cfg.Rerank.MaxTokens,
			})
		},
		now: time.Now,
	}
}

// Verify substantiates or contests one finding against all five providers.
// It always returns a FindingEvidence, degrading toward unverified with an
// explanatory error map instead of failing.
func (e *Engine) Verify(ctx context.Context, finding model.Finding, page *model.PageContext, creds model.Credentials) *model.FindingEvidence {
	pack := query.Build(finding, page)
	agg := e.aggregate(ctx, pack, creds)

	ev := &model.FindingEvidence{
		Query:       pack.Claim,
		GeneratedAt: e.now().UTC(),
		FactChecks:  agg.factChecks,
		Wikipedia:   agg.wikipedia,
		Wikidata:    agg.wikidata,
		PubMed:      agg.pubmed,
		News:        agg.news,
		Errors:      agg.errors,
	}
	ev.Status = Classify(ev.FactChecks, ev.Wikipedia, ev.Wikidata, ev.PubMed)

	if creds.LLMKey != "" {
		provider, err := e.newRanker(creds.LLMKey)
		switch {
		case err != nil:
			ev.Errors[errKeyRerank] = err.Error()
		case provider != nil:
			e.rerank(ctx, finding, ev, provider)
		}
	}

	if len(ev.Errors) == 0 {
		ev.Errors = nil
	}
	return ev
}
