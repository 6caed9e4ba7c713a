package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okulov/attestor/internal/model"
)

func TestWikidataSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "wbsearchentities" {
			t.Errorf("unexpected action: %q", got)
		}
		w.Write([]byte(`{"search":[
			{"id":"Q42","label":"Douglas Adams","description":"English writer","concepturi":"http://www.wikidata.org/entity/Q42"},
			{"id":"Q43","label":"No URI entity","description":"d"}
		]}`))
	}))
	defer server.Close()

	client := NewWikidataClient(model.DefaultConfig().HTTP)
	client.SetBaseURL(server.URL)

	items, err := client.Search(context.Background(), "douglas adams")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Douglas Adams" || items[0].URL != "http://www.wikidata.org/entity/Q42" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].URL != "https://www.wikidata.org/wiki/Q43" {
		t.Errorf("missing concepturi should fall back to the wiki URL, got %q", items[1].URL)
	}
	for _, it := range items {
		if it.Source != model.SourceWikidata {
			t.Errorf("wrong source kind: %s", it.Source)
		}
	}
}

func TestWikidataSearch_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[]}`))
	}))
	defer server.Close()

	client := NewWikidataClient(model.DefaultConfig().HTTP)
	client.SetBaseURL(server.URL)

	items, err := client.Search(context.Background(), "zxqv")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
