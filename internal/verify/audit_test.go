package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okulov/attestor/internal/model"
)

func TestAudit_ProbesEveryDistinctURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
		case "/gone":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	ev := &model.FindingEvidence{
		FactChecks: model.FactCheckResult{Matches: []model.FactCheckMatch{
			{ReviewURL: server.URL + "/ok"},
			{ReviewURL: server.URL + "/ok"}, // duplicate
		}},
		Wikipedia: []model.CorroborationItem{{URL: server.URL + "/gone"}},
		News:      []model.NewsArticle{{URL: server.URL + "/private/page"}},
	}

	auditor := NewAuditor(model.DefaultConfig())
	records := auditor.Audit(context.Background(), ev)

	if len(records) != 3 {
		t.Fatalf("expected 3 records after dedupe, got %d", len(records))
	}

	byURL := make(map[string]model.LinkAudit)
	for _, rec := range records {
		byURL[rec.URL] = rec
	}

	ok := byURL[server.URL+"/ok"]
	if !ok.Accessible || ok.StatusCode != http.StatusOK {
		t.Errorf("live link misreported: %+v", ok)
	}

	gone := byURL[server.URL+"/gone"]
	if gone.Accessible || gone.StatusCode != http.StatusNotFound {
		t.Errorf("dead link misreported: %+v", gone)
	}

	private := byURL[server.URL+"/private/page"]
	if !private.Skipped {
		t.Errorf("robots-disallowed link not skipped: %+v", private)
	}
}

func TestAudit_EmptyEvidence(t *testing.T) {
	auditor := NewAuditor(model.DefaultConfig())
	if records := auditor.Audit(context.Background(), &model.FindingEvidence{}); records != nil {
		t.Errorf("expected nil for empty evidence, got %v", records)
	}
}

func TestCollectURLs_Order(t *testing.T) {
	ev := &model.FindingEvidence{
		FactChecks: model.FactCheckResult{Matches: []model.FactCheckMatch{{ReviewURL: "https://a"}}},
		Wikipedia:  []model.CorroborationItem{{URL: "https://b"}},
		Wikidata:   []model.CorroborationItem{{URL: "https://c"}, {URL: "https://a"}},
		PubMed:     []model.CorroborationItem{{URL: "https://d"}},
		News:       []model.NewsArticle{{URL: "https://e"}},
	}
	got := collectURLs(ev)
	want := []string{"https://a", "https://b", "https://c", "https://d", "https://e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d urls, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
