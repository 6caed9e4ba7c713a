package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/okulov/attestor/internal/llm"
	"github.com/okulov/attestor/internal/model"
)

// Reranker selection policy. Thresholds follow the observed defaults; the
// selection itself is pure so it stays unit-testable apart from the
// capability call.
const (
	relevanceFloor  = 0.55
	strongRelevance = 0.7
	maxKeep         = 8
	maxSupportive   = 5
	maxFallback     = 4
	maxSummaryChars = 160
)

// Candidate ID prefixes encode the source kind; the index after the colon
// is the item's position in its original collection.
const (
	idFactCheck = "fc"
	idWikipedia = "wiki"
	idWikidata  = "wd"
	idPubMed    = "pm"
	idNews      = "news"
)

// rerank runs the optional relevance pass over every collected item. Any
// capability failure is recorded and leaves the evidence untouched:
// reranking must never eliminate evidence as a side effect of its own
// failure.
func (e *Engine) rerank(ctx context.Context, finding model.Finding, ev *model.FindingEvidence, provider llm.Provider) {
	candidates := buildCandidates(ev)
	if len(candidates) == 0 {
		return
	}

	scores, err := provider.ScoreCandidates(ctx, llm.ScoreRequest{
		Claim:      ev.Query,
		Intent:     intentFor(finding),
		Candidates: candidates,
	})
	if err != nil {
		ev.Errors[errKeyRerank] = fmt.Sprintf("relevance pass failed: %v", err)
		return
	}

	byID := make(map[string]llm.CandidateScore, len(scores))
	for _, s := range scores {
		byID[s.ID] = s
	}

	keep := selectKeepIDs(finding.HasIssue(model.IssueMisinformation), candidates, byID)
	if keep == nil {
		// No usable scores: pass evidence through unfiltered
		return
	}

	applyKeepSet(ev, keep)
	ev.Status = Classify(ev.FactChecks, ev.Wikipedia, ev.Wikidata, ev.PubMed)
}

func intentFor(f model.Finding) string {
	if f.HasIssue(model.IssueMisinformation) {
		return string(model.IntentMisinformation)
	}
	return string(model.IntentArgumentation)
}

// buildCandidates flattens every evidence collection into the candidate
// list, each with a stable id and a compact machine-readable summary
func buildCandidates(ev *model.FindingEvidence) []llm.Candidate {
	var candidates []llm.Candidate
	add := func(prefix string, index int, summary string) {
		candidates = append(candidates, llm.Candidate{
			ID:      fmt.Sprintf("%s:%d", prefix, index),
			Summary: truncate(summary, maxSummaryChars),
		})
	}

	for i, m := range ev.FactChecks.Matches {
		add(idFactCheck, i, fmt.Sprintf("fact-check by %s: %q rated %q", m.Publisher, m.ClaimText, m.TextualRating))
	}
	for i, item := range ev.Wikipedia {
		add(idWikipedia, i, fmt.Sprintf("encyclopedia: %s. %s", item.Title, item.Snippet))
	}
	for i, item := range ev.Wikidata {
		add(idWikidata, i, fmt.Sprintf("entity: %s. %s", item.Title, item.Snippet))
	}
	for i, item := range ev.PubMed {
		add(idPubMed, i, fmt.Sprintf("study: %s. %s", item.Title, item.Snippet))
	}
	for i, article := range ev.News {
		add(idNews, i, fmt.Sprintf("news (%s): %s", article.Domain, article.Title))
	}
	return candidates
}

// selectKeepIDs applies the keep-set policy. Returns nil when the scores
// are unusable, which callers must treat as "keep everything".
func selectKeepIDs(misinformation bool, candidates []llm.Candidate, scores map[string]llm.CandidateScore) map[string]bool {
	if len(scores) == 0 {
		return nil
	}

	type ranked struct {
		id        string
		relevance float64
		stance    llm.Stance
	}

	var broad []ranked
	var strongSupportive []ranked
	matched := 0
	for _, c := range candidates {
		s, ok := scores[c.ID]
		if !ok {
			continue
		}
		matched++
		if !s.Useful {
			continue
		}
		entry := ranked{id: c.ID, relevance: s.Relevance, stance: llm.NormalizeStance(s.Stance)}
		if s.Relevance >= relevanceFloor {
			broad = append(broad, entry)
		}
		if s.Relevance >= strongRelevance && entry.stance == llm.StanceSupportive {
			strongSupportive = append(strongSupportive, entry)
		}
	}
	if matched == 0 {
		// Every id in the reply is unknown: the scores are unusable and
		// must not empty the evidence
		return nil
	}
	sort.SliceStable(broad, func(i, j int) bool { return broad[i].relevance > broad[j].relevance })
	sort.SliceStable(strongSupportive, func(i, j int) bool { return strongSupportive[i].relevance > strongSupportive[j].relevance })

	keepList := func(entries []ranked, limit int) map[string]bool {
		keep := make(map[string]bool)
		for _, entry := range entries {
			keep[entry.id] = true
			if len(keep) >= limit {
				break
			}
		}
		return keep
	}

	if !misinformation {
		return keepList(broad, maxKeep)
	}

	// For misinformation findings, supportive-only evidence must not
	// silently launder the claim into "supported": prefer non-supportive
	// stances, then strongly relevant supportive, then anything broad.
	var nonSupportive []ranked
	for _, entry := range broad {
		if entry.stance != llm.StanceSupportive {
			nonSupportive = append(nonSupportive, entry)
		}
	}
	if len(nonSupportive) > 0 {
		return keepList(nonSupportive, maxKeep)
	}
	if len(strongSupportive) > 0 {
		return keepList(strongSupportive, maxSupportive)
	}
	return keepList(broad, maxFallback)
}

// applyKeepSet filters all evidence collections uniformly by keep-id
// membership
func applyKeepSet(ev *model.FindingEvidence, keep map[string]bool) {
	ev.FactChecks.Matches = filterByKeep(ev.FactChecks.Matches, idFactCheck, keep)
	ev.Wikipedia = filterByKeep(ev.Wikipedia, idWikipedia, keep)
	ev.Wikidata = filterByKeep(ev.Wikidata, idWikidata, keep)
	ev.PubMed = filterByKeep(ev.PubMed, idPubMed, keep)
	ev.News = filterByKeep(ev.News, idNews, keep)
}

func filterByKeep[T any](items []T, prefix string, keep map[string]bool) []T {
	var out []T
	for i, item := range items {
		if keep[fmt.Sprintf("%s:%d", prefix, i)] {
			out = append(out, item)
		}
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	// Walk back to a rune boundary so the cut never splits a sequence
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
