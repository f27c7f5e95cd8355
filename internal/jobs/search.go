package jobs

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"findmyjob-backend/internal/shared/cache"
	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/telemetry"
)

// Results maps provider name to its listings. Every configured provider has an entry.
type Results map[string][]Listing

// Searcher queries all providers concurrently and caches their answers.
type Searcher struct {
	providers []Provider
	cache     cache.Cache
	ttl       time.Duration
	timeout   time.Duration
	defaults  Query
}

// SearcherOptions tunes a Searcher. Zero values disable caching and the per-provider timeout.
type SearcherOptions struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Timeout  time.Duration
	Defaults Query
}

func NewSearcher(providers []Provider, opts SearcherOptions) *Searcher {
	return &Searcher{
		providers: providers,
		cache:     opts.Cache,
		ttl:       opts.CacheTTL,
		timeout:   opts.Timeout,
		defaults:  opts.Defaults,
	}
}

// Providers lists the configured provider names in order.
func (s *Searcher) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Defaults returns the query applied to blank fields.
func (s *Searcher) Defaults() Query {
	return s.defaults
}

// Search fans out to every provider. A failing provider is logged and yields an
// empty list; Search itself never fails. An empty keyword searches nothing.
func (s *Searcher) Search(ctx context.Context, q Query) Results {
	q = q.Normalize(s.defaults)
	results := make(Results, len(s.providers))
	for _, p := range s.providers {
		results[p.Name()] = []Listing{}
	}
	if q.Keyword == "" || len(s.providers) == 0 {
		return results
	}

	start := time.Now()
	lists := make([][]Listing, len(s.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		i, p := i, p
		// searchOne logs provider errors and yields an empty list, so no
		// goroutine fails the group.
		g.Go(func() error {
			lists[i] = s.searchOne(gctx, p, q)
			return nil
		})
	}
	_ = g.Wait()

	for i, p := range s.providers {
		results[p.Name()] = lists[i]
	}
	metrics.ObserveSearchDurationMs(metrics.SinceMillis(start))
	return results
}

func (s *Searcher) searchOne(ctx context.Context, p Provider, q Query) []Listing {
	key := "jobs:" + p.Name() + ":" + q.CacheKey()
	if cached, ok := s.fromCache(ctx, key); ok {
		metrics.IncCacheHit()
		return cached
	}
	if s.cache != nil {
		metrics.IncCacheMiss()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := p.Search(ctx, q)
	if err != nil {
		metrics.IncProviderFailure(p.Name())
		telemetry.Warn("jobs.provider_failed", map[string]any{
			"provider":    p.Name(),
			"keyword":     q.Keyword,
			"duration_ms": metrics.SinceMillis(start),
			"error":       err,
		})
		return []Listing{}
	}

	listings := make([]Listing, 0, len(raw))
	for _, l := range raw {
		l = l.WithDefaults()
		if l.Title == "" {
			continue
		}
		l.Source = p.Name()
		listings = append(listings, l)
	}
	metrics.AddProviderListings(p.Name(), len(listings))
	telemetry.Info("jobs.provider_done", map[string]any{
		"provider":    p.Name(),
		"keyword":     q.Keyword,
		"count":       len(listings),
		"duration_ms": metrics.SinceMillis(start),
	})
	s.toCache(ctx, key, listings)
	return listings
}

func (s *Searcher) fromCache(ctx context.Context, key string) ([]Listing, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		telemetry.Warn("jobs.cache_get_failed", map[string]any{"key": key, "error": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var listings []Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		telemetry.Warn("jobs.cache_decode_failed", map[string]any{"key": key, "error": err})
		return nil, false
	}
	if listings == nil {
		listings = []Listing{}
	}
	return listings, true
}

func (s *Searcher) toCache(ctx context.Context, key string, listings []Listing) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		telemetry.Warn("jobs.cache_set_failed", map[string]any{"key": key, "error": err})
	}
}
