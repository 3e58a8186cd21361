package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burhanuddin20/pinpoint/internal/cache"
	"github.com/burhanuddin20/pinpoint/internal/httpclient"
)

func newTestResolver(t *testing.T, igID, igToken string) (*Resolver, *cache.Store[Embed]) {
	t.Helper()
	store := cache.New[Embed]("oembed", nil)
	hc := httpclient.New(testLogger())
	return NewResolver(hc, store, igID, igToken, testLogger(), testMetrics()), store
}

func TestResolve_TikTok(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/oembed", r.URL.Path)
		w.Write([]byte(`{"author_name":"joescafe","thumbnail_url":"https://cdn.example/t.jpg","title":"flat white","html":"<blockquote/>"}`))
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, "", "")
	r.SetBaseURLs(srv.URL, "")

	url := "https://www.tiktok.com/@joescafe/video/111"
	e := r.Resolve(context.Background(), url)

	assert.Equal(t, PlatformTikTok, e.Platform)
	assert.Equal(t, url, e.URL)
	require.NotNil(t, e.Author)
	assert.Equal(t, "joescafe", *e.Author)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://cdn.example/t.jpg", *e.Thumbnail)

	// second resolve comes from the embed cache
	r.Resolve(context.Background(), url)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolve_InstagramWithCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/instagram_oembed", r.URL.Path)
		require.Equal(t, "app123|tok456", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"author_name":"joescafe","thumbnail_url":"https://cdn.example/i.jpg"}`))
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, "app123", "tok456")
	r.SetBaseURLs("", srv.URL)

	e := r.Resolve(context.Background(), "https://www.instagram.com/p/AAA111")
	assert.Equal(t, PlatformInstagram, e.Platform)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://cdn.example/i.jpg", *e.Thumbnail)
}

func TestResolve_InstagramWithoutCredentialsIsMinimal(t *testing.T) {
	r, store := newTestResolver(t, "", "")

	url := "https://www.instagram.com/p/AAA111"
	e := r.Resolve(context.Background(), url)

	assert.Equal(t, Embed{Platform: PlatformInstagram, URL: url}, e)
	// unresolved embeds are not cached
	_, ok := store.Get("oembed:" + sha1Hex(url))
	assert.False(t, ok)
}

func TestResolve_TransportFailureIsMinimal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, "", "")
	r.SetBaseURLs(srv.URL, "")

	url := "https://www.tiktok.com/@joescafe/video/111"
	e := r.Resolve(context.Background(), url)
	assert.Equal(t, Embed{Platform: PlatformTikTok, URL: url}, e)
}

func TestResolve_ParseFailureIsMinimal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, "", "")
	r.SetBaseURLs(srv.URL, "")

	url := "https://www.tiktok.com/@joescafe/video/111"
	e := r.Resolve(context.Background(), url)
	assert.Equal(t, Embed{Platform: PlatformTikTok, URL: url}, e)
}
