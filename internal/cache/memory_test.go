package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("tab-1", "the quote")
	if _, found := c.Get(key); found {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(key, []byte(`{"status":"contradicted"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != `{"status":"contradicted"}` {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("value survived Delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("value survived its TTL")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("value survived Clear")
	}
}

func TestKey_Distinguishes(t *testing.T) {
	if Key("tab-1", "quote") == Key("tab-2", "quote") {
		t.Error("different tabs must produce different keys")
	}
	if Key("tab-1", "quote a") == Key("tab-1", "quote b") {
		t.Error("different quotes must produce different keys")
	}
	if Key("tab-1", "quote") != Key("tab-1", "quote") {
		t.Error("key derivation must be deterministic")
	}
}
