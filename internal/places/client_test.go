package places

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burhanuddin20/pinpoint/internal/httpclient"
	"github.com/burhanuddin20/pinpoint/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMapSummary(t *testing.T) {
	rating := 4.4
	count := 120
	open := true
	full := rawPlace{
		ID:                  "p1",
		DisplayName:         &rawLocalizedText{Text: "Star Cafe"},
		Location:            &rawLatLng{Latitude: 51.5, Longitude: -0.12},
		Rating:              &rating,
		UserRatingCount:     &count,
		FormattedAddress:    "1 High St, London",
		CurrentOpeningHours: &rawOpeningHours{OpenNow: &open},
	}

	poi := mapSummary(full)
	assert.Equal(t, "p1", poi.ID)
	assert.Equal(t, "Star Cafe", poi.Name)
	assert.Equal(t, 51.5, poi.Lat)
	require.NotNil(t, poi.Rating)
	assert.Equal(t, 4.4, *poi.Rating)
	require.NotNil(t, poi.FormattedAddress)
	require.NotNil(t, poi.OpenNow)
	assert.True(t, *poi.OpenNow)
}

func TestMapSummary_AbsentFieldsStayAbsent(t *testing.T) {
	poi := mapSummary(rawPlace{ID: "p2"})
	assert.Equal(t, "p2", poi.ID)
	assert.Empty(t, poi.Name)
	assert.Nil(t, poi.Rating)
	assert.Nil(t, poi.UserRatingCount)
	assert.Nil(t, poi.FormattedAddress)
	assert.Nil(t, poi.OpenNow)
}

func TestMapDetail_PhonePreference(t *testing.T) {
	both := mapDetail(rawPlace{
		NationalPhoneNumber:      "020 1234 5678",
		InternationalPhoneNumber: "+44 20 1234 5678",
	})
	require.NotNil(t, both.Phone)
	assert.Equal(t, "020 1234 5678", *both.Phone)

	intlOnly := mapDetail(rawPlace{InternationalPhoneNumber: "+44 20 1234 5678"})
	require.NotNil(t, intlOnly.Phone)
	assert.Equal(t, "+44 20 1234 5678", *intlOnly.Phone)

	neither := mapDetail(rawPlace{})
	assert.Nil(t, neither.Phone)
}

func TestMapDetail(t *testing.T) {
	open := false
	d := mapDetail(rawPlace{
		WebsiteURI:          "https://starcafe.example",
		CurrentOpeningHours: &rawOpeningHours{OpenNow: &open, WeekdayDescriptions: []string{"Mon: 9-5"}},
		EditorialSummary:    &rawLocalizedText{Text: "A neighborhood favorite."},
		Photos:              []rawPhoto{{Name: "places/p1/photos/a"}, {}},
	})
	require.NotNil(t, d.Website)
	require.NotNil(t, d.OpeningHours)
	assert.Equal(t, []string{"Mon: 9-5"}, d.OpeningHours.WeekdayDescriptions)
	require.NotNil(t, d.EditorialSummary)
	assert.Equal(t, []string{"places/p1/photos/a"}, d.PhotoRefs, "empty photo names are skipped")
}

func TestClampMax(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 20},
		{-5, 20},
		{10, 10},
		{20, 20},
		{21, 20},
		{100, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, clampMax(tc.in))
	}
}

func TestSearchNearby(t *testing.T) {
	var gotPath, gotKey, gotMask string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"places":[{"id":"p1","displayName":{"text":"Star Cafe"}},{"id":"p2"}]}`))
	}))
	defer srv.Close()

	c := NewClient(httpclient.New(testLogger()), "test-key", srv.URL, nil)
	pois, err := c.SearchNearby(context.Background(), models.NearbyQuery{
		Lat: 51.5, Lon: -0.12, Radius: 1500, Type: "cafe", Max: 99,
	})
	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, "Star Cafe", pois[0].Name)

	assert.Equal(t, "/v1/places:searchNearby", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotMask, "places.id")
	assert.Equal(t, []any{"cafe"}, gotBody["includedTypes"])
	assert.Equal(t, float64(20), gotBody["maxResultCount"], "caller max is clamped to the upstream limit")
	restriction := gotBody["locationRestriction"].(map[string]any)["circle"].(map[string]any)
	assert.Equal(t, float64(1500), restriction["radius"])
}

func TestSearchText_UsesBiasNotRestriction(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"places":[]}`))
	}))
	defer srv.Close()

	c := NewClient(httpclient.New(testLogger()), "test-key", srv.URL, nil)
	pois, err := c.SearchText(context.Background(), models.TextQuery{
		Query: "sushi", Lat: 51.5, Lon: -0.12, Radius: 1500, Max: 12,
	})
	require.NoError(t, err)
	assert.Empty(t, pois, "empty result set is success")

	assert.Equal(t, "sushi", gotBody["textQuery"])
	assert.Contains(t, gotBody, "locationBias")
	assert.NotContains(t, gotBody, "locationRestriction")
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/places/abc123", r.URL.Path)
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "nationalPhoneNumber")
		_, _ = w.Write([]byte(`{"id":"abc123","websiteUri":"https://starcafe.example"}`))
	}))
	defer srv.Close()

	c := NewClient(httpclient.New(testLogger()), "test-key", srv.URL, nil)
	detail, err := c.Details(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, detail.Website)
	assert.Equal(t, "https://starcafe.example", *detail.Website)
}

func TestDetails_EmptyID(t *testing.T) {
	c := NewClient(httpclient.New(testLogger()), "test-key", "http://unused.invalid", nil)
	_, err := c.Details(context.Background(), "")
	require.Error(t, err)
}

func TestSearchNearby_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(httpclient.New(testLogger()), "bad-key", srv.URL, nil)
	_, err := c.SearchNearby(context.Background(), models.NearbyQuery{Lat: 51.5, Lon: -0.12, Radius: 1500, Type: "cafe", Max: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
