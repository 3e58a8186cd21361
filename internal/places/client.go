package places

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/burhanuddin20/pinpoint/internal/httpclient"
	"github.com/burhanuddin20/pinpoint/internal/models"
	"github.com/burhanuddin20/pinpoint/internal/obs"
)

const (
	DefaultBaseURL = "https://places.googleapis.com"

	// upstream hard limit on result counts; caller maxima are clamped here
	maxResultLimit = 20

	upstreamName = "places"
)

var summaryFieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.location",
	"places.rating",
	"places.userRatingCount",
	"places.formattedAddress",
	"places.currentOpeningHours.openNow",
}, ",")

var detailFieldMask = strings.Join([]string{
	"id",
	"nationalPhoneNumber",
	"internationalPhoneNumber",
	"websiteUri",
	"currentOpeningHours",
	"editorialSummary",
	"photos.name",
}, ",")

// Client adapts the Places API (New) into the internal POI shape. Business
// failures are not retried here; the HTTP client's fixed retry budget covers
// transport flakiness.
type Client struct {
	hc      *httpclient.Client
	apiKey  string
	baseURL string
	metrics *obs.Metrics
}

func NewClient(hc *httpclient.Client, apiKey, baseURL string, m *obs.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{hc: hc, apiKey: apiKey, baseURL: baseURL, metrics: m}
}

type circle struct {
	Center rawLatLng `json:"center"`
	Radius float64   `json:"radius"`
}

type circleArea struct {
	Circle circle `json:"circle"`
}

// SearchNearby runs a circle-bounded typed search. An empty result set is
// success, not an error.
func (c *Client) SearchNearby(ctx context.Context, q models.NearbyQuery) ([]models.POI, error) {
	body := map[string]any{
		"includedTypes":  []string{q.Type},
		"maxResultCount": clampMax(q.Max),
		"locationRestriction": circleArea{Circle: circle{
			Center: rawLatLng{Latitude: q.Lat, Longitude: q.Lon},
			Radius: float64(q.Radius),
		}},
	}

	var res searchResponse
	if err := c.post(ctx, c.baseURL+"/v1/places:searchNearby", summaryFieldMask, body, &res); err != nil {
		return nil, errors.Wrap(err, "nearby search")
	}
	return mapAll(res.Places), nil
}

// SearchText runs a free-text search biased, not restricted, to the circle.
func (c *Client) SearchText(ctx context.Context, q models.TextQuery) ([]models.POI, error) {
	body := map[string]any{
		"textQuery":      q.Query,
		"maxResultCount": clampMax(q.Max),
		"locationBias": circleArea{Circle: circle{
			Center: rawLatLng{Latitude: q.Lat, Longitude: q.Lon},
			Radius: float64(q.Radius),
		}},
	}

	var res searchResponse
	if err := c.post(ctx, c.baseURL+"/v1/places:searchText", summaryFieldMask, body, &res); err != nil {
		return nil, errors.Wrap(err, "text search")
	}
	return mapAll(res.Places), nil
}

// Details fetches the secondary fields for one place id.
func (c *Client) Details(ctx context.Context, id string) (models.POIDetail, error) {
	if id == "" {
		return models.POIDetail{}, errors.New("empty place id")
	}

	var raw rawPlace
	endpoint := fmt.Sprintf("%s/v1/places/%s", c.baseURL, url.PathEscape(id))
	start := time.Now()
	err := c.hc.FetchJSON(ctx, endpoint, httpclient.Options{
		Headers: c.headers(detailFieldMask),
	}, &raw)
	c.observe(start, err)
	if err != nil {
		return models.POIDetail{}, errors.Wrap(err, "place details")
	}
	return mapDetail(raw), nil
}

func (c *Client) post(ctx context.Context, endpoint, fieldMask string, body any, out any) error {
	start := time.Now()
	err := c.hc.FetchJSON(ctx, endpoint, httpclient.Options{
		Method:  "POST",
		Headers: c.headers(fieldMask),
		Body:    body,
	}, out)
	c.observe(start, err)
	return err
}

func (c *Client) headers(fieldMask string) map[string]string {
	return map[string]string{
		"X-Goog-Api-Key":   c.apiKey,
		"X-Goog-FieldMask": fieldMask,
	}
}

func (c *Client) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveUpstreamLatency(upstreamName, time.Since(start).Seconds())
	if err != nil {
		c.metrics.IncUpstreamError(upstreamName)
	}
}

func clampMax(max int) int {
	if max <= 0 || max > maxResultLimit {
		return maxResultLimit
	}
	return max
}

func mapAll(raw []rawPlace) []models.POI {
	pois := make([]models.POI, 0, len(raw))
	for _, p := range raw {
		pois = append(pois, mapSummary(p))
	}
	return pois
}
