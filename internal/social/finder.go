package social

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/burhanuddin20/pinpoint/internal/obs"
)

const defaultFindLimit = 8

// Finder discovers candidate post URLs for a place by running one
// site-scoped web search per platform. General web search returns plenty of
// profile and hashtag pages that can't be embedded; the URL-shape filters
// drop those before any embed-resolution call is spent on them.
type Finder struct {
	searcher WebSearcher
	logger   *slog.Logger
	metrics  *obs.Metrics
}

func NewFinder(searcher WebSearcher, logger *slog.Logger, m *obs.Metrics) *Finder {
	return &Finder{searcher: searcher, logger: logger, metrics: m}
}

// FindPostURLs returns up to limit deduplicated post URLs for the place.
// Both per-platform searches run concurrently; a failed search degrades to
// zero results for that platform and never fails the pipeline.
func (f *Finder) FindPostURLs(ctx context.Context, name, city, neighborhood string, limit int) []string {
	if limit <= 0 {
		limit = defaultFindLimit
	}

	var parts []string
	for _, p := range []string{name, neighborhood, city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	base := strings.Join(parts, " ")

	queries := []string{
		base + " site:tiktok.com",
		base + " site:instagram.com",
	}
	results := make([][]string, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			urls, err := f.searcher.Search(gctx, q, limit)
			if err != nil {
				f.logger.Debug("social search degraded", "query", q, "error", err)
				f.metrics.IncUpstreamError("web_search")
				return nil
			}
			results[i] = urls
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	deduped := make([]string, 0, limit)
	for _, urls := range results {
		for _, u := range urls {
			if !IsTikTokPostURL(u) && !IsInstagramPostURL(u) {
				continue
			}
			key := u
			if !strings.HasSuffix(key, "/") {
				key += "/"
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			deduped = append(deduped, u)
			if len(deduped) >= limit {
				return deduped
			}
		}
	}
	return deduped
}
