// Package llm wraps the external language-model capability consumed by the
// relevance reranker. The engine treats it as an oracle: a scoring call per
// candidate set, nothing else.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stance tags a candidate's evidentiary posture toward the claim
type Stance string

const (
	StanceCritical   Stance = "critical"
	StanceSupportive Stance = "supportive"
	StanceNeutral    Stance = "neutral"
	StanceMixed      Stance = "mixed"
	StanceUnknown    Stance = "unknown"
)

// NormalizeStance folds arbitrary model output into a known stance
func NormalizeStance(s string) Stance {
	switch Stance(strings.ToLower(strings.TrimSpace(s))) {
	case StanceCritical:
		return StanceCritical
	case StanceSupportive:
		return StanceSupportive
	case StanceNeutral:
		return StanceNeutral
	case StanceMixed:
		return StanceMixed
	default:
		return StanceUnknown
	}
}

// Candidate is one evidence item presented for scoring. ID is stable and
// encodes the item's source kind and original index.
type Candidate struct {
	ID      string
	Summary string
}

// CandidateScore is the capability's judgment of one candidate
type CandidateScore struct {
	ID        string  `json:"id"`
	Relevance float64 `json:"relevance"`
	Useful    bool    `json:"useful"`
	Stance    string  `json:"stance"`
}

// ScoreRequest asks the capability to grade every candidate against a claim
type ScoreRequest struct {
	Claim      string
	Intent     string
	Candidates []Candidate
}

// Provider is the LLM capability interface
type Provider interface {
	// Name returns the provider name
	Name() string

	// ScoreCandidates grades each candidate's relevance, usefulness, and
	// stance toward the claim
	ScoreCandidates(ctx context.Context, req ScoreRequest) ([]CandidateScore, error)
}

// Config holds LLM provider configuration
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// BuildScoringPrompt renders a score request as the model prompt. The reply
// contract is a bare JSON array so parsing stays mechanical.
func BuildScoringPrompt(req ScoreRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You grade evidence candidates against a claim under review.

Claim: %s
Review intent: %s

For EVERY candidate below, judge:
- relevance: 0.0-1.0, how directly it addresses the claim's topic
- useful: true only if it could substantiate or contest the claim
- stance: one of critical, supportive, neutral, mixed, unknown

Candidates:
`, req.Claim, req.Intent)

	for _, c := range req.Candidates {
		fmt.Fprintf(&b, "[%s] %s\n", c.ID, c.Summary)
	}

	b.WriteString(`
Reply with ONLY a JSON array, one object per candidate, shaped exactly like:
[{"id":"fc:0","relevance":0.8,"useful":true,"stance":"critical"}]`)
	return b.String()
}

// ParseScores decodes the model reply leniently: code fences and prose
// around the array are tolerated, anything less is an error.
func ParseScores(reply string) ([]CandidateScore, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var scores []CandidateScore
	if err := json.Unmarshal([]byte(reply[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return scores, nil
}
