package social

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/burhanuddin20/pinpoint/internal/cache"
	"github.com/burhanuddin20/pinpoint/internal/httpclient"
	"github.com/burhanuddin20/pinpoint/internal/obs"
)

const (
	embedTTL     = 7 * 24 * time.Hour
	embedTimeout = 1500 * time.Millisecond

	DefaultTikTokBaseURL = "https://www.tiktok.com"
	DefaultGraphBaseURL  = "https://graph.facebook.com"
)

// Resolver turns a post URL into a renderable embed via the platform's
// oEmbed endpoint. Resolved embeds live in their own cache, independent of
// the place-level social entries. Resolution never fails outward: any
// transport or parse problem, and Instagram without configured credentials,
// degrade to the minimal embed. One bad post must never abort a search
// response.
type Resolver struct {
	hc    *httpclient.Client
	cache *cache.Store[Embed]

	igAppID    string
	igAppToken string

	tiktokBaseURL string
	graphBaseURL  string

	logger  *slog.Logger
	metrics *obs.Metrics
}

func NewResolver(hc *httpclient.Client, store *cache.Store[Embed], igAppID, igAppToken string, logger *slog.Logger, m *obs.Metrics) *Resolver {
	return &Resolver{
		hc:            hc,
		cache:         store,
		igAppID:       igAppID,
		igAppToken:    igAppToken,
		tiktokBaseURL: DefaultTikTokBaseURL,
		graphBaseURL:  DefaultGraphBaseURL,
		logger:        logger,
		metrics:       m,
	}
}

// SetBaseURLs points the resolver at alternate oEmbed hosts. Used by tests.
func (r *Resolver) SetBaseURLs(tiktok, graph string) {
	if tiktok != "" {
		r.tiktokBaseURL = tiktok
	}
	if graph != "" {
		r.graphBaseURL = graph
	}
}

type oembedResponse struct {
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
}

// Resolve always returns a usable Embed, minimal on any failure.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Embed {
	platform := PlatformInstagram
	if strings.Contains(rawURL, "tiktok.com") {
		platform = PlatformTikTok
	}

	key := "oembed:" + sha1Hex(rawURL)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	var (
		endpoint string
		upstream string
	)
	switch platform {
	case PlatformTikTok:
		endpoint = fmt.Sprintf("%s/oembed?url=%s", r.tiktokBaseURL, url.QueryEscape(rawURL))
		upstream = "tiktok_oembed"
	case PlatformInstagram:
		if r.igAppID == "" || r.igAppToken == "" {
			return Embed{Platform: PlatformInstagram, URL: rawURL}
		}
		token := r.igAppID + "|" + r.igAppToken
		endpoint = fmt.Sprintf("%s/v19.0/instagram_oembed?url=%s&access_token=%s",
			r.graphBaseURL, url.QueryEscape(rawURL), url.QueryEscape(token))
		upstream = "instagram_oembed"
	}

	var res oembedResponse
	if err := r.hc.FetchJSON(ctx, endpoint, httpclient.Options{Timeout: embedTimeout}, &res); err != nil {
		r.logger.Debug("oembed degraded", "platform", platform, "url", rawURL, "error", err)
		r.metrics.IncUpstreamError(upstream)
		return Embed{Platform: platform, URL: rawURL}
	}

	embed := Embed{
		Platform:  platform,
		URL:       rawURL,
		Author:    optional(res.AuthorName),
		Thumbnail: optional(res.ThumbnailURL),
		Title:     optional(res.Title),
		HTML:      optional(res.HTML),
	}
	r.cache.Set(key, embed, embedTTL)
	return embed
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
