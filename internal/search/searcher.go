package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrSuperseded is returned when a newer query started while this one was
// still waiting on the provider. The newer query's result is the one that
// counts; callers discard the superseded one.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher runs queries through a configured provider with a response cache,
// falling back to local heuristics when the provider is missing or fails.
//
// Each Search call takes a ticket from a monotonically increasing generation
// counter. If another call takes a ticket while a slow provider request is in
// flight, the older call returns ErrSuperseded instead of delivering a result
// for a query the user has already moved past.
type Searcher struct {
	provider Provider
	fallback *FallbackProvider
	cache    *cache.Cache
	gen      atomic.Int64
	log      *slog.Logger
}

// Result is a search response tagged with the generation that produced it.
type Result struct {
	Response
	Generation int64 `json:"generation"`
}

// NewSearcher creates a Searcher. provider may be nil, in which case every
// query is answered by the fallback heuristics.
func NewSearcher(provider Provider, cacheTTL time.Duration, log *slog.Logger) *Searcher {
	if log == nil {
		log = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &Searcher{
		provider: provider,
		fallback: NewFallbackProvider(),
		cache:    cache.New(cacheTTL, 2*cacheTTL),
		log:      log,
	}
}

// Generation returns the ticket of the most recent query.
func (s *Searcher) Generation() int64 {
	return s.gen.Load()
}

// Search resolves a query. A cached response for the same query and scope is
// returned immediately; otherwise the provider is asked, and on any provider
// error the fallback answers instead. The only error Search returns is
// ErrSuperseded.
func (s *Searcher) Search(ctx context.Context, req Request) (*Result, error) {
	gen := s.gen.Add(1)
	key := cacheKey(req)

	if cached, ok := s.cache.Get(key); ok {
		resp := cached.(*Response)
		return &Result{Response: *resp, Generation: gen}, nil
	}

	resp := s.resolve(ctx, req)

	// A slow provider call may have been overtaken by a newer query.
	if s.gen.Load() != gen {
		s.log.Debug("search result superseded", "generation", gen, "current", s.gen.Load())
		return nil, ErrSuperseded
	}

	s.cache.Set(key, resp, cache.DefaultExpiration)
	return &Result{Response: *resp, Generation: gen}, nil
}

func (s *Searcher) resolve(ctx context.Context, req Request) *Response {
	if s.provider != nil {
		resp, err := s.provider.Search(ctx, req)
		if err == nil {
			return resp
		}
		s.log.Warn("search provider failed, using fallback",
			"provider", s.provider.Name(), "error", err)
	}

	resp, err := s.fallback.Search(ctx, req)
	if err != nil {
		// The fallback cannot fail, but keep the response total anyway.
		return &Response{
			Explanation: "Search is unavailable.",
			Source:      s.fallback.Name(),
		}
	}
	return resp
}

func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%s", req.Kind, req.Query)
}
