package model

// IssueType categorizes why a finding was flagged upstream
type IssueType string

const (
	IssueMisinformation IssueType = "misinformation" // Factually disputed statement
	IssueFallacy        IssueType = "fallacy"        // Logical fallacy
	IssueBias           IssueType = "bias"           // Rhetorical/framing bias
)

// Finding is a flagged quote handed to the engine by the upstream analysis
// stage. It is immutable for the duration of one verification call.
type Finding struct {
	Quote      string      `json:"quote"`                // Verbatim text span
	Correction string      `json:"correction,omitempty"` // Only for misinformation findings
	Rationale  string      `json:"rationale,omitempty"`  // Why the finding was flagged
	Issues     []IssueType `json:"issues"`               // One or more issue-type tags
	Confidence float64     `json:"confidence,omitempty"` // Upstream confidence (0-1)
	Severity   float64     `json:"severity,omitempty"`   // Upstream severity (0-1)
}

// HasIssue reports whether the finding carries the given issue tag
func (f Finding) HasIssue(t IssueType) bool {
	for _, issue := range f.Issues {
		if issue == t {
			return true
		}
	}
	return false
}

// PageContext describes the document surrounding a finding. It only biases
// query construction and relevance scoring and is never required.
type PageContext struct {
	Summary  string   `json:"summary,omitempty"`  // Free-text document summary
	Topics   []string `json:"topics,omitempty"`   // Topic keywords
	Entities []string `json:"entities,omitempty"` // Entity keywords
}

// Credentials carries the two optional provider credentials. Sourcing them
// (env vars, config) is the caller's responsibility.
type Credentials struct {
	FactCheckKey string `json:"-"`
	LLMKey       string `json:"-"`
}
