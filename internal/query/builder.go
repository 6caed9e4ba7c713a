// Package query derives targeted search-string variants per provider family
// from a finding's quote, correction, rationale, and page context.
package query

import (
	"strings"

	"github.com/okulov/attestor/internal/model"
)

const (
	maxClaimWords   = 22
	maxEntities     = 6
	maxTopics       = 10
	maxSnippetWords = 12

	misinformationPhrase = "fact check false misleading"
	argumentationPhrase  = "claim context explained"
)

// reportingVerbs mark "X said that ..." preambles to strip from the quote
var reportingVerbs = map[string]bool{
	"said": true, "says": true, "say": true, "claimed": true,
	"claims": true, "stated": true, "states": true, "argued": true,
	"argues": true, "wrote": true, "writes": true, "noted": true,
	"notes": true, "insisted": true, "insists": true, "suggested": true,
	"suggests": true, "reported": true, "reports": true, "added": true,
	"adds": true, "declared": true, "declares": true, "warned": true,
	"warns": true, "told": true, "tells": true,
}

// concessiveMarkers open trailing clauses that dilute the core claim
var concessiveMarkers = []string{
	", although", ", though", ", but ", ", however", ", despite",
	", even though", ", while ",
}

var leadingPronouns = map[string]bool{
	"he": true, "she": true, "they": true, "it": true, "we": true,
}

// Build derives a QueryPack from a finding and optional page context. It
// never fails: degenerate input collapses to the raw quote truncated to a
// fixed word count.
func Build(f model.Finding, page *model.PageContext) model.QueryPack {
	if page == nil {
		page = &model.PageContext{}
	}

	quote := cleanText(f.Quote)
	correction := cleanText(f.Correction)
	combined := strings.TrimSpace(quote + " " + correction)

	entities := extractEntities(combined, page.Entities, maxEntities)
	topics := extractTopics(combined, entities, page.Topics, maxTopics)

	core := coreClaim(quote, entities)
	if core == "" {
		core = truncateWords(quote, maxClaimWords)
	}
	if core == "" {
		core = truncateWords(cleanText(f.Rationale), maxClaimWords)
	}
	if core == "" {
		core = "unsubstantiated claim"
	}

	compact := strings.TrimSpace(strings.Join(append(
		append([]string{}, firstN(entities, 2)...),
		firstN(topics, 6)...), " "))
	if compact == "" {
		compact = core
	}

	intent := model.IntentArgumentation
	intentPhrase := argumentationPhrase
	if f.HasIssue(model.IssueMisinformation) {
		intent = model.IntentMisinformation
		intentPhrase = misinformationPhrase
	}

	entityPhrase := strings.Join(firstN(entities, 3), " ")
	topicPhrase := strings.Join(firstN(topics, 6), " ")
	pagePhrase := strings.TrimSpace(strings.Join(firstN(page.Entities, 2), " ") +
		" " + strings.Join(firstN(page.Topics, 3), " "))
	snippet := truncateWords(cleanText(page.Summary), maxSnippetWords)

	return model.QueryPack{
		Claim:     compact,
		CoreClaim: core,
		Entities:  entities,
		Topics:    topics,
		Intent:    intent,

		FactCheck: variants(core,
			core, compact,
			strings.TrimSpace(entityPhrase+" "+strings.Join(firstN(topics, 3), " ")),
			core+" "+intentPhrase, pagePhrase),
		Wikipedia: variants(core,
			compact, core, topicPhrase,
			strings.TrimSpace(entityPhrase+" "+strings.Join(firstN(topics, 3), " ")),
			pagePhrase),
		Wikidata: variants(core,
			entityPhrase, compact, core, strings.Join(firstN(page.Entities, 2), " ")),
		PubMed: variants(core,
			topicPhrase, compact, core, snippet),
		News: variants(core,
			strings.TrimSpace(compact+" "+intentPhrase),
			compact, core, snippet, pagePhrase),
	}
}

// cleanText strips quotation marks and collapses whitespace
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '“', '”', '‘', '’', '«', '»':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// coreClaim reduces a quote to its claim kernel: attribution prefixes and
// reporting-verb preambles removed, trailing concessive clause cut, leading
// pronoun substituted with the first known entity, capped at maxClaimWords.
func coreClaim(quote string, entities []string) string {
	s := stripAttributionPrefix(quote)
	s = stripReportingPreamble(s)
	s = stripTrailingConcession(s)
	s = substitutePronoun(s, entities)
	return truncateWords(strings.TrimSpace(s), maxClaimWords)
}

func stripAttributionPrefix(s string) string {
	lower := strings.ToLower(s)
	cut := func() string {
		if idx := strings.Index(s, ","); idx > 0 && idx < 60 {
			return strings.TrimSpace(s[idx+1:])
		}
		return s
	}
	if strings.HasPrefix(lower, "according to ") {
		return cut()
	}
	if strings.HasPrefix(lower, "on ") {
		rest := strings.Fields(lower)
		if len(rest) > 1 {
			second := trimToken(rest[1])
			if entityStoplist[second] { // weekday or month
				return cut()
			}
		}
	}
	return s
}

func stripReportingPreamble(s string) string {
	fields := strings.Fields(s)
	limit := 8
	if len(fields) < limit {
		limit = len(fields)
	}
	for i := 1; i < limit; i++ {
		word := strings.ToLower(trimToken(fields[i]))
		if !reportingVerbs[word] {
			continue
		}
		rest := fields[i+1:]
		if len(rest) > 0 && strings.EqualFold(rest[0], "that") {
			rest = rest[1:]
		}
		if len(rest) >= 3 {
			return strings.Join(rest, " ")
		}
		break
	}
	return s
}

func stripTrailingConcession(s string) string {
	lower := strings.ToLower(s)
	for _, marker := range concessiveMarkers {
		if idx := strings.Index(lower, marker); idx > len(s)/2 {
			s = s[:idx]
			lower = lower[:idx]
		}
	}
	return s
}

func substitutePronoun(s string, entities []string) string {
	if len(entities) == 0 {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	if leadingPronouns[strings.ToLower(trimToken(fields[0]))] {
		fields[0] = entities[0]
		return strings.Join(fields, " ")
	}
	return s
}

// variants assembles an ordered, deduplicated variant list. The fallback
// guarantees every list has at least one entry.
func variants(fallback string, candidates ...string) []string {
	out := dedupeFold(candidates, 7)
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}
