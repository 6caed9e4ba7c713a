package query

import (
	"strings"
	"unicode"
)

// stopwords filtered out of topic terms and ignored when deciding whether a
// capitalized token opens an entity
var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "all": true,
	"also": true, "an": true, "and": true, "any": true, "are": true,
	"as": true, "at": true, "be": true, "because": true, "been": true,
	"before": true, "being": true, "between": true, "both": true,
	"but": true, "by": true, "can": true, "could": true, "did": true,
	"do": true, "does": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "he": true, "her": true, "here": true, "him": true,
	"his": true, "how": true, "i": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "just": true,
	"more": true, "most": true, "no": true, "not": true, "now": true,
	"of": true, "on": true, "once": true, "only": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "own": true,
	"said": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
}

// entityStoplist keeps dates and honorifics out of extracted entities
var entityStoplist = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true,
	"december": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sir": true, "madam": true, "lord": true, "lady": true,
}

// trimToken strips surrounding punctuation and quote marks from a token
func trimToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func isCapitalized(tok string) bool {
	for _, r := range tok {
		return unicode.IsUpper(r)
	}
	return false
}

// extractEntities pulls proper-noun-like sequences (capitalized runs,
// filtered against the date/honorific stoplist) from text and merges them
// with caller-supplied entity keywords.
func extractEntities(text string, extra []string, max int) []string {
	var entities []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			entities = append(entities, strings.Join(current, " "))
			current = nil
		}
	}

	for i, tok := range strings.Fields(text) {
		t := trimToken(tok)
		if t == "" {
			flush()
			continue
		}
		lower := strings.ToLower(t)
		switch {
		case !isCapitalized(t), entityStoplist[lower]:
			flush()
		case i == 0 && stopwords[lower]:
			// Sentence-initial "The", "He", ... is not an entity opener
			flush()
		default:
			current = append(current, t)
		}
	}
	flush()

	entities = append(entities, extra...)
	return dedupeFold(entities, max)
}

// extractTopics lowercases, strips punctuation, and removes stopwords and
// any token already claimed by an entity, then merges caller topic keywords.
func extractTopics(text string, entities, extra []string, max int) []string {
	entityTokens := make(map[string]bool)
	for _, e := range entities {
		for _, tok := range strings.Fields(strings.ToLower(e)) {
			entityTokens[tok] = true
		}
	}

	var topics []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		t := trimToken(tok)
		if len(t) < 3 || stopwords[t] || entityTokens[t] {
			continue
		}
		if isNumeric(t) {
			continue
		}
		topics = append(topics, t)
	}

	for _, t := range extra {
		topics = append(topics, strings.ToLower(strings.TrimSpace(t)))
	}
	return dedupeFold(topics, max)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// dedupeFold deduplicates case-insensitively, preserving order, dropping
// empties, and capping at max (0 = no cap)
func dedupeFold(items []string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// truncateWords caps a string at n words
func truncateWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ")
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
