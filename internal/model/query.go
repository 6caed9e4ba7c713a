package model

// Intent tags what kind of scrutiny a finding calls for. Two adapters and
// the reranker bias their behavior on it.
type Intent string

const (
	IntentMisinformation Intent = "misinformation" // Look for debunks
	IntentArgumentation  Intent = "argumentation"  // Look for context/explanation
)

// QueryPack is the set of derived query-string variants and extracted terms
// used to drive all five provider searches for one finding. Ephemeral: built
// once per verification call and discarded afterwards.
type QueryPack struct {
	Claim     string   `json:"claim"`      // Compact claim (entities + topics)
	CoreClaim string   `json:"core_claim"` // Attribution-stripped quote
	Entities  []string `json:"entities"`
	Topics    []string `json:"topics"`
	Intent    Intent   `json:"intent"`

	// Ordered query variants per provider family, most specific first.
	// Every list is guaranteed non-empty.
	FactCheck []string `json:"fact_check"`
	Wikipedia []string `json:"wikipedia"`
	Wikidata  []string `json:"wikidata"`
	PubMed    []string `json:"pubmed"`
	News      []string `json:"news"`
}
