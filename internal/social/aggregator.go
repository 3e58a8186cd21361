package social

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/burhanuddin20/pinpoint/internal/cache"
	"github.com/burhanuddin20/pinpoint/internal/obs"
)

const (
	placeSocialTTL   = 24 * time.Hour
	keepTopEmbeds    = 3
	defaultFindCount = 6
)

// URLFinder yields candidate post URLs for a place.
type URLFinder interface {
	FindPostURLs(ctx context.Context, name, city, neighborhood string, limit int) []string
}

// EmbedResolver resolves one URL into an embed. An error drops that URL from
// the batch; it is never retried.
type EmbedResolver interface {
	Resolve(ctx context.Context, url string) Embed
}

// Aggregator owns the place-level social cache entry: it finds candidate
// URLs, resolves them concurrently, ranks the embeds and keeps the top few.
type Aggregator struct {
	finder   URLFinder
	resolver EmbedResolver
	cache    *cache.Store[[]Embed]
	logger   *slog.Logger
	metrics  *obs.Metrics
}

func NewAggregator(finder URLFinder, resolver EmbedResolver, store *cache.Store[[]Embed], logger *slog.Logger, m *obs.Metrics) *Aggregator {
	return &Aggregator{finder: finder, resolver: resolver, cache: store, logger: logger, metrics: m}
}

// SocialForPlace returns the ranked top embeds for a place. It never returns
// an error: any pipeline failure yields an empty list, and per-URL
// resolution failures only drop that URL.
func (a *Aggregator) SocialForPlace(ctx context.Context, name, city, neighborhood string, limit int) []Embed {
	if limit <= 0 {
		limit = defaultFindCount
	}

	key := "social:" + NormalizePlaceKey(name, city)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	urls := a.finder.FindPostURLs(ctx, name, city, neighborhood, limit)
	if len(urls) == 0 {
		return []Embed{}
	}

	embeds := make([]*Embed, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					a.logger.Warn("embed resolution panic recovered", "url", u, "panic", rec)
					a.metrics.IncEnrichmentDegraded("oembed")
				}
			}()
			e := a.resolver.Resolve(gctx, u)
			embeds[i] = &e
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]Embed, 0, len(embeds))
	for _, e := range embeds {
		if e != nil {
			resolved = append(resolved, *e)
		}
	}

	rankEmbeds(resolved)
	if len(resolved) > keepTopEmbeds {
		resolved = resolved[:keepTopEmbeds]
	}
	a.cache.Set(key, resolved, placeSocialTTL)
	return resolved
}

// rankEmbeds orders by platform preference (TikTok first), then thumbnail
// presence, stable otherwise.
func rankEmbeds(embeds []Embed) {
	platformScore := func(e Embed) int {
		if e.Platform == PlatformTikTok {
			return 1
		}
		return 0
	}
	thumbScore := func(e Embed) int {
		if e.Thumbnail != nil {
			return 1
		}
		return 0
	}
	sort.SliceStable(embeds, func(i, j int) bool {
		if ps := platformScore(embeds[i]) - platformScore(embeds[j]); ps != 0 {
			return ps > 0
		}
		return thumbScore(embeds[i]) > thumbScore(embeds[j])
	})
}
