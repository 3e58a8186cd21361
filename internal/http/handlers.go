package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/burhanuddin20/pinpoint/internal/models"
	"github.com/burhanuddin20/pinpoint/internal/obs"
	"github.com/burhanuddin20/pinpoint/internal/search"
)

type Handler struct {
	svc         search.ServiceManagement
	social      search.SocialSource
	ratelimiter search.RateLimiter
	metrics     *obs.Metrics
}

func NewHandler(svc search.ServiceManagement, social search.SocialSource, rl search.RateLimiter, m *obs.Metrics) *Handler {
	return &Handler{svc: svc, social: social, ratelimiter: rl, metrics: m}
}

func (h *Handler) ipFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// requestID resolves the same id the logging middleware records: caller
// header first, then chi's middleware.RequestID context value, a fresh uuid
// only when neither exists.
func (h *Handler) requestID(r *http.Request) string {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		return rid
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		return rid
	}
	return uuid.New().String()
}

func (h *Handler) allow(w http.ResponseWriter, r *http.Request, reqID string) bool {
	if h.ratelimiter.Allow(h.ipFromRequest(r)) {
		return true
	}
	h.metrics.IncRateLimitDrops()
	TooManyRequests(w, "rate limit exceeded", map[string]string{"request_id": reqID})
	return false
}

// Search handles the combined free-text search. GET passes query/lat/lon as
// query params; POST passes them as a JSON body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncRequests()
	reqID := h.requestID(r)

	var (
		req *models.SearchRequest
		err error
	)
	if r.Method == http.MethodPost {
		// pointer fields distinguish absent coordinates from a literal 0,0
		var body struct {
			Query string   `json:"query"`
			Lat   *float64 `json:"lat"`
			Lon   *float64 `json:"lon"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil || body.Lat == nil || body.Lon == nil {
			BadRequest(w, "body must include query, lat and lon", map[string]string{"request_id": reqID})
			return
		}
		req = &models.SearchRequest{Query: body.Query, Lat: *body.Lat, Lon: *body.Lon}
	} else {
		q := r.URL.Query()
		req, err = models.NewSearchRequest(q.Get("query"), q.Get("lat"), q.Get("lon"))
		if err != nil {
			BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
			return
		}
	}

	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}

	if !h.allow(w, r, reqID) {
		return
	}

	res, err := h.svc.Search(ctx, req)
	if err != nil {
		BadGateway(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncRequests()
	reqID := h.requestID(r)

	q := r.URL.Query()
	req, err := models.NewNearbyRequest(
		q.Get("lat"),
		q.Get("lon"),
		q.Get("type"),
		q.Get("radius"),
		q.Get("max"),
	)
	if err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}

	if !h.allow(w, r, reqID) {
		return
	}

	res, err := h.svc.Nearby(ctx, req)
	if err != nil {
		BadGateway(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncRequests()
	reqID := h.requestID(r)

	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequest(w, "place id is required", map[string]string{"request_id": reqID})
		return
	}

	if !h.allow(w, r, reqID) {
		return
	}

	detail, err := h.svc.Details(ctx, id)
	if err != nil {
		BadGateway(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// Social returns the ranked social embeds for one place. Degradation below
// this never surfaces as an error, only as fewer embeds.
func (h *Handler) Social(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncRequests()
	reqID := h.requestID(r)

	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		BadRequest(w, "name is required", map[string]string{"request_id": reqID})
		return
	}

	if !h.allow(w, r, reqID) {
		return
	}

	embeds := h.social.SocialForPlace(ctx, name, q.Get("city"), q.Get("neighborhood"), 0)
	WriteJSON(w, http.StatusOK, embeds)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
