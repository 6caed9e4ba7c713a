package model

import "time"

// Config holds all engine and CLI configuration
type Config struct {
	HTTP      HTTPConfig       `yaml:"http"`
	News      NewsConfig       `yaml:"news"`
	Rerank    RerankConfig     `yaml:"rerank"`
	Cache     CacheConfig      `yaml:"cache"`
	Audit     AuditConfig      `yaml:"audit"`
	Wikipedia WikipediaWeights `yaml:"wikipedia"`
	PubMed    PubMedWeights    `yaml:"pubmed"`
}

// HTTPConfig controls the provider HTTP clients
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`        // Per-request timeout for most providers
	PubMedTimeout time.Duration `yaml:"pubmed_timeout"` // Covers the two-step search+summary chain
	UserAgent     string        `yaml:"user_agent"`
}

// NewsConfig controls the news-archive adapter and its rate governor
type NewsConfig struct {
	MinInterval  time.Duration `yaml:"min_interval"`  // Minimum spacing between requests
	TrustDomains []string      `yaml:"trust_domains"` // First-attempt domain allow-list
	MaxArticles  int           `yaml:"max_articles"`
}

// RerankConfig controls the optional LLM relevance pass
type RerankConfig struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// CacheConfig controls the caller-side evidence cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"` // Staleness window
}

// AuditConfig controls the optional evidence link audit
type AuditConfig struct {
	Enabled bool          `yaml:"enabled"`
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// WikipediaWeights are the encyclopedic-search relevance heuristics. They
// are hand-tuned defaults, kept configurable so deployments can recalibrate
// without code changes.
type WikipediaWeights struct {
	TitleOverlap     int `yaml:"title_overlap"`     // Per query term found in title
	BodyOverlap      int `yaml:"body_overlap"`      // Per query term found in title+snippet
	HintBonus        int `yaml:"hint_bonus"`        // Per caller-supplied topic/entity term found
	OmnibusPenalty   int `yaml:"omnibus_penalty"`   // "administration/policy-of" titles
	BiographyPenalty int `yaml:"biography_penalty"` // Entity-only overlap, zero topic overlap
	MinFloor         int `yaml:"min_floor"`         // Lower bound of the keep floor
}

// PubMedWeights are the biomedical-literature quality heuristics
type PubMedWeights struct {
	SystematicReview int     `yaml:"systematic_review"` // Meta-analysis/umbrella/systematic review
	QualityTerm      int     `yaml:"quality_term"`      // Cohort, randomized, population-based, ...
	LowSignalTerm    int     `yaml:"low_signal_term"`   // Editorial, case report, protocol (per term)
	EchoPenalty      int     `yaml:"echo_penalty"`      // Title is a near-verbatim echo of the query
	EchoOverlap      float64 `yaml:"echo_overlap"`      // Token-overlap ratio that counts as an echo
	RecencyWindow    int     `yaml:"recency_window"`    // Years of publication recency that earn a bonus
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			PubMedTimeout: 20 * time.Second,
			UserAgent:     "Attestor/0.1 (+https://github.com/okulov/attestor)",
		},
		News: NewsConfig{
			MinInterval: 5 * time.Second,
			TrustDomains: []string{
				"reuters.com", "apnews.com", "bbc.com", "npr.org",
				"theguardian.com", "nytimes.com", "washingtonpost.com",
				"politifact.com", "factcheck.org", "snopes.com",
				"fullfact.org", "afp.com", "who.int", "cdc.gov",
				"nature.com", "nih.gov",
			},
			MaxArticles: 5,
		},
		Rerank: RerankConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60 * time.Second,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled: false,
			Workers: 10,
			Timeout: 10 * time.Second,
		},
		Wikipedia: WikipediaWeights{
			TitleOverlap:     3,
			BodyOverlap:      2,
			HintBonus:        2,
			OmnibusPenalty:   4,
			BiographyPenalty: 3,
			MinFloor:         3,
		},
		PubMed: PubMedWeights{
			SystematicReview: 8,
			QualityTerm:      4,
			LowSignalTerm:    5,
			EchoPenalty:      6,
			EchoOverlap:      0.8,
			RecencyWindow:    10,
		},
	}
}
