package social

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/burhanuddin20/pinpoint/internal/httpclient"
)

// WebSearcher is the pluggable web-search backend used to discover candidate
// post URLs. The implementation is chosen once at startup; a searcher with
// no credentials returns zero results rather than an error.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

const (
	bingTimeout    = 2500 * time.Millisecond
	serpAPITimeout = 4 * time.Second

	DefaultBingBaseURL    = "https://api.bing.microsoft.com"
	DefaultSerpAPIBaseURL = "https://serpapi.com"
)

type BingSearcher struct {
	hc      *httpclient.Client
	key     string
	baseURL string
}

func NewBingSearcher(hc *httpclient.Client, key, baseURL string) *BingSearcher {
	if baseURL == "" {
		baseURL = DefaultBingBaseURL
	}
	return &BingSearcher{hc: hc, key: key, baseURL: baseURL}
}

func (b *BingSearcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if b.key == "" {
		return nil, nil
	}

	var out struct {
		WebPages struct {
			Value []struct {
				URL string `json:"url"`
			} `json:"value"`
		} `json:"webPages"`
	}
	u := fmt.Sprintf("%s/v7.0/search?q=%s&mkt=en-GB&count=%d&responseFilter=Webpages",
		b.baseURL, url.QueryEscape(query), limit)
	err := b.hc.FetchJSON(ctx, u, httpclient.Options{
		Headers: map[string]string{"Ocp-Apim-Subscription-Key": b.key},
		Timeout: bingTimeout,
	}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "bing search")
	}

	urls := make([]string, 0, len(out.WebPages.Value))
	for _, v := range out.WebPages.Value {
		if v.URL != "" {
			urls = append(urls, v.URL)
		}
	}
	return urls, nil
}

type SerpAPISearcher struct {
	hc      *httpclient.Client
	key     string
	baseURL string
}

func NewSerpAPISearcher(hc *httpclient.Client, key, baseURL string) *SerpAPISearcher {
	if baseURL == "" {
		baseURL = DefaultSerpAPIBaseURL
	}
	return &SerpAPISearcher{hc: hc, key: key, baseURL: baseURL}
}

func (s *SerpAPISearcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if s.key == "" {
		return nil, nil
	}

	var out struct {
		OrganicResults []struct {
			Link string `json:"link"`
		} `json:"organic_results"`
	}
	u := fmt.Sprintf("%s/search.json?engine=google&q=%s&api_key=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(s.key))
	err := s.hc.FetchJSON(ctx, u, httpclient.Options{Timeout: serpAPITimeout}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "serpapi search")
	}

	urls := make([]string, 0, len(out.OrganicResults))
	for _, v := range out.OrganicResults {
		if v.Link != "" {
			urls = append(urls, v.Link)
		}
	}
	return urls, nil
}
