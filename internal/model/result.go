package model

import "time"

// StatusCode is the engine's four-way verdict
type StatusCode string

const (
	StatusSupported    StatusCode = "supported"
	StatusContradicted StatusCode = "contradicted"
	StatusContested    StatusCode = "contested"
	StatusUnverified   StatusCode = "unverified"
)

// Label returns a short human-readable label for the code
func (c StatusCode) Label() string {
	switch c {
	case StatusSupported:
		return "Supported by fact-checkers"
	case StatusContradicted:
		return "Contradicted by fact-checkers"
	case StatusContested:
		return "Contested among fact-checkers"
	default:
		return "Unverified"
	}
}

// ConfidenceTier grades how much weight the verdict carries
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// VerificationStatus is the single authoritative verdict for a finding.
// It is recomputed, never mutated, whenever the evidence sets change.
type VerificationStatus struct {
	Code       StatusCode     `json:"code"`
	Label      string         `json:"label"`
	Reason     string         `json:"reason"`
	Confidence ConfidenceTier `json:"confidence"`
}

// LinkAudit records the accessibility of one evidence URL (optional pass)
type LinkAudit struct {
	URL        string `json:"url"`
	Accessible bool   `json:"accessible"`
	StatusCode int    `json:"status_code,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"` // robots.txt disallowed
	Error      string `json:"error,omitempty"`
}

// FindingEvidence is the final verification output, owned by the caller
// after return. Every item in every collection is traceable to a URL the
// provider actually returned for this finding's queries.
type FindingEvidence struct {
	Query       string             `json:"query"`
	GeneratedAt time.Time          `json:"generated_at"`
	Status      VerificationStatus `json:"status"`

	FactChecks FactCheckResult     `json:"fact_checks"`
	Wikipedia  []CorroborationItem `json:"wikipedia"`
	Wikidata   []CorroborationItem `json:"wikidata"`
	PubMed     []CorroborationItem `json:"pubmed"`
	News       []NewsArticle       `json:"news"`

	// Errors names exactly which sources failed so a caller can render
	// partial results with a "some sources unavailable" affordance.
	Errors map[string]string `json:"errors,omitempty"`

	Audit []LinkAudit `json:"audit,omitempty"`
}

// CorroborationSources counts how many of the three corroboration
// collections are non-empty
func (e *FindingEvidence) CorroborationSources() int {
	n := 0
	if len(e.Wikipedia) > 0 {
		n++
	}
	if len(e.Wikidata) > 0 {
		n++
	}
	if len(e.PubMed) > 0 {
		n++
	}
	return n
}
