package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/worker"
)

func newGDELTTestClient(serverURL string, trustDomains []string) *GDELTClient {
	cfg := model.DefaultConfig()
	cfg.News.TrustDomains = trustDomains
	client := NewGDELTClient(cfg.HTTP, cfg.News, worker.NewGovernor(time.Millisecond))
	client.SetBaseURL(serverURL)
	return client
}

func TestGDELTSearch_ScopedFirst(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		w.Write([]byte(`{"articles":[
			{"url":"https://reuters.com/a","title":"A","domain":"reuters.com","tone":-4.2,"seendate":"20250301T120000Z","language":"English"},
			{"url":"https://reuters.com/a","title":"A dup","domain":"reuters.com","tone":-4.2},
			{"url":"https://apnews.com/b","title":"B","domain":"apnews.com","tone":-1.0}
		]}`))
	}))
	defer server.Close()

	client := newGDELTTestClient(server.URL, []string{"reuters.com", "apnews.com"})
	articles, err := client.Search(context.Background(), "bridge collapse")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("scoped query found results, expected 1 request, got %d", len(queries))
	}
	if !strings.Contains(queries[0], "(domain:reuters.com OR domain:apnews.com)") {
		t.Errorf("domain scope missing: %q", queries[0])
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles after URL dedupe, got %d", len(articles))
	}
	if articles[0].URL != "https://reuters.com/a" || articles[0].Tone != -4.2 {
		t.Errorf("provider order not preserved: %+v", articles[0])
	}
}

func TestGDELTSearch_UnscopedFallback(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		queries = append(queries, q)
		if strings.Contains(q, "domain:") {
			w.Write([]byte(`{"articles":[]}`))
			return
		}
		w.Write([]byte(`{"articles":[{"url":"https://blog.example/x","title":"X","domain":"blog.example"}]}`))
	}))
	defer server.Close()

	client := newGDELTTestClient(server.URL, []string{"reuters.com"})
	articles, err := client.Search(context.Background(), "obscure local claim")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected scoped then unscoped request, got %d", len(queries))
	}
	if strings.Contains(queries[1], "domain:") {
		t.Errorf("second request should be unscoped: %q", queries[1])
	}
	if len(articles) != 1 {
		t.Errorf("expected the unscoped result, got %d", len(articles))
	}
}

func TestGDELTSearch_RateLimitedIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newGDELTTestClient(server.URL, nil)
	articles, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("429 must not be an error, got %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty result, got %d", len(articles))
	}
}

func TestGDELTSearch_MalformedPayloadIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>please use the API responsibly</html>`))
	}))
	defer server.Close()

	client := newGDELTTestClient(server.URL, nil)
	articles, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("malformed payload must not be an error, got %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty result, got %d", len(articles))
	}
}

func TestGDELTSearch_CapsArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`{"articles":[`)
		for i := 0; i < 9; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"url":"https://example.org/` + string(rune('a'+i)) + `","title":"t"}`)
		}
		b.WriteString(`]}`)
		w.Write([]byte(b.String()))
	}))
	defer server.Close()

	client := newGDELTTestClient(server.URL, nil)
	articles, err := client.Search(context.Background(), "busy topic")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(articles) != 5 {
		t.Errorf("expected cap of 5 articles, got %d", len(articles))
	}
}
