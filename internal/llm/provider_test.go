package llm

import (
	"strings"
	"testing"
)

func TestParseScores_BareArray(t *testing.T) {
	scores, err := ParseScores(`[{"id":"fc:0","relevance":0.8,"useful":true,"stance":"critical"}]`)
	if err != nil {
		t.Fatalf("ParseScores failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	s := scores[0]
	if s.ID != "fc:0" || s.Relevance != 0.8 || !s.Useful || s.Stance != "critical" {
		t.Errorf("unexpected score: %+v", s)
	}
}

func TestParseScores_ToleratesFencesAndProse(t *testing.T) {
	reply := "Here are the scores:\n```json\n" +
		`[{"id":"wiki:0","relevance":0.6,"useful":false,"stance":"neutral"}]` +
		"\n```\nLet me know if you need anything else."
	scores, err := ParseScores(reply)
	if err != nil {
		t.Fatalf("ParseScores failed: %v", err)
	}
	if len(scores) != 1 || scores[0].ID != "wiki:0" {
		t.Errorf("unexpected scores: %+v", scores)
	}
}

func TestParseScores_Malformed(t *testing.T) {
	for _, reply := range []string{
		"I cannot score these candidates.",
		"[not json at all]",
		"",
	} {
		if _, err := ParseScores(reply); err == nil {
			t.Errorf("expected error for %q", reply)
		}
	}
}

func TestBuildScoringPrompt(t *testing.T) {
	prompt := BuildScoringPrompt(ScoreRequest{
		Claim:  "The bridge collapsed because of sabotage",
		Intent: "misinformation",
		Candidates: []Candidate{
			{ID: "fc:0", Summary: "No, the bridge did not collapse because of sabotage"},
			{ID: "news:1", Summary: "Investigators cite maintenance failures"},
		},
	})

	for _, want := range []string{
		"The bridge collapsed because of sabotage",
		"misinformation",
		"[fc:0]",
		"[news:1]",
		"ONLY a JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNormalizeStance(t *testing.T) {
	cases := map[string]Stance{
		"critical":     StanceCritical,
		" Supportive ": StanceSupportive,
		"NEUTRAL":      StanceNeutral,
		"mixed":        StanceMixed,
		"favorable":    StanceUnknown,
		"":             StanceUnknown,
	}
	for in, want := range cases {
		if got := NormalizeStance(in); got != want {
			t.Errorf("NormalizeStance(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("unexpected provider name: %s", p.Name())
	}

	p, err = NewProvider(Config{Provider: ""})
	if err != nil || p != nil {
		t.Errorf("empty provider should be a silent nil, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
