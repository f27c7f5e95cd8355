package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"findmyjob-backend/internal/shared/cache"
)

type fakeProvider struct {
	name     string
	listings []Listing
	err      error
	delay    time.Duration
	calls    atomic.Int32
	lastQ    Query
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, q Query) ([]Listing, error) {
	f.calls.Add(1)
	f.lastQ = q
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.listings, f.err
}

func TestSearchIsolatesProviderFailures(t *testing.T) {
	good := &fakeProvider{name: "naukri", listings: []Listing{{Title: "Python Developer", Company: "Acme"}}}
	bad := &fakeProvider{name: "adzuna", err: errors.New("boom")}
	s := NewSearcher([]Provider{good, bad}, SearcherOptions{Defaults: Query{Location: "Bangalore", Experience: 2, Pages: 3}})

	res := s.Search(context.Background(), Query{Keyword: "Python Developer", Experience: -1})

	if len(res["naukri"]) != 1 {
		t.Fatalf("expected naukri listing, got %v", res["naukri"])
	}
	l := res["naukri"][0]
	if l.Salary != NotDisclosed || l.Location != NotSpecified || l.Description != NoDescription || l.Source != "naukri" {
		t.Fatalf("expected defaults applied, got %+v", l)
	}
	if got, ok := res["adzuna"]; !ok || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list for failing provider, got %#v", got)
	}
	if good.lastQ.Location != "Bangalore" || good.lastQ.Experience != 2 || good.lastQ.Pages != 3 {
		t.Fatalf("expected defaults in query, got %+v", good.lastQ)
	}
}

func TestSearchUsesCache(t *testing.T) {
	p := &fakeProvider{name: "naukri", listings: []Listing{{Title: "Go Developer"}}}
	s := NewSearcher([]Provider{p}, SearcherOptions{Cache: cache.NewMemory(10), CacheTTL: time.Minute, Defaults: Query{Pages: 1}})

	first := s.Search(context.Background(), Query{Keyword: "Go Developer"})
	second := s.Search(context.Background(), Query{Keyword: "go developer"})

	if p.calls.Load() != 1 {
		t.Fatalf("expected one provider call, got %d", p.calls.Load())
	}
	if len(second["naukri"]) != 1 || second["naukri"][0].Title != first["naukri"][0].Title {
		t.Fatalf("expected cached listings, got %v", second["naukri"])
	}
}

func TestSearchTimeout(t *testing.T) {
	slow := &fakeProvider{name: "slow", delay: time.Second, listings: []Listing{{Title: "x"}}}
	s := NewSearcher([]Provider{slow}, SearcherOptions{Timeout: 20 * time.Millisecond})

	res := s.Search(context.Background(), Query{Keyword: "x"})
	if len(res["slow"]) != 0 {
		t.Fatalf("expected timed out provider to yield nothing, got %v", res["slow"])
	}
}

func TestSearchEmptyKeyword(t *testing.T) {
	p := &fakeProvider{name: "naukri"}
	s := NewSearcher([]Provider{p}, SearcherOptions{})
	res := s.Search(context.Background(), Query{Keyword: "  "})
	if p.calls.Load() != 0 {
		t.Fatalf("expected no provider calls")
	}
	if res["naukri"] == nil {
		t.Fatalf("expected empty list entry")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<div>Role:<br/>Build <b>APIs</b> &amp; tools<script>x()</script></div>")
	if got != "Role:\nBuild APIs & tools" {
		t.Fatalf("StripHTML = %q", got)
	}
	if StripHTML("  plain   text ") != "plain text" {
		t.Fatalf("expected plain text collapsed")
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Keyword: " Data Scientist ", Pages: 50, Experience: 0}.Normalize(Query{Location: "Bangalore", Pages: 3})
	if q.Keyword != "Data Scientist" || q.Location != "Bangalore" || q.Pages != maxPages || q.Experience != 0 {
		t.Fatalf("unexpected normalized query %+v", q)
	}
	if q.CacheKey() != "data scientist|bangalore|0|10" {
		t.Fatalf("unexpected cache key %q", q.CacheKey())
	}
}
