package model

// SourceKind identifies which corroboration provider produced an item
type SourceKind string

const (
	SourceWikipedia SourceKind = "wikipedia"
	SourceWikidata  SourceKind = "wikidata"
	SourcePubMed    SourceKind = "pubmed"
)

// CorroborationItem is a normalized search result from one of the three
// corroboration providers. The shape is identical across them so the
// aggregator and reranker treat them uniformly.
type CorroborationItem struct {
	Title   string     `json:"title"`
	Snippet string     `json:"snippet,omitempty"`
	URL     string     `json:"url"`
	Source  SourceKind `json:"source"`
}

// Verdict is the normalized reading of one fact-check review
type Verdict string

const (
	VerdictSupported    Verdict = "supported"
	VerdictContradicted Verdict = "contradicted"
	VerdictContested    Verdict = "contested"
	VerdictUnknown      Verdict = "unknown"
)

// FactCheckMatch is one independent publisher's claim review
type FactCheckMatch struct {
	ClaimText     string  `json:"claim_text"`
	Claimant      string  `json:"claimant,omitempty"`
	Publisher     string  `json:"publisher"`
	ReviewTitle   string  `json:"review_title"`
	TextualRating string  `json:"textual_rating,omitempty"`
	ReviewURL     string  `json:"review_url"`
	ReviewDate    string  `json:"review_date,omitempty"`
	LanguageCode  string  `json:"language_code,omitempty"`
	Verdict       Verdict `json:"normalized_verdict"`
}

// FactCheckResult wraps fact-check matches together with the configured
// flag. "Not configured" is a first-class outcome distinct from "zero
// matches" and the two must never be conflated.
type FactCheckResult struct {
	Configured bool             `json:"configured"`
	Matches    []FactCheckMatch `json:"matches"`
}

// NewsArticle is one news-archive hit. Tone is a signed float from the
// provider (more negative = more critical coverage); it drives sort order
// only, never classification.
type NewsArticle struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Domain   string  `json:"domain"`
	Tone     float64 `json:"tone,omitempty"`
	SeenDate string  `json:"seen_date,omitempty"`
	Language string  `json:"language,omitempty"`
}
