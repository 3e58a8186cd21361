package search

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/burhanuddin20/pinpoint/internal/cache"
	"github.com/burhanuddin20/pinpoint/internal/models"
	"github.com/burhanuddin20/pinpoint/internal/obs"
	"github.com/burhanuddin20/pinpoint/internal/social"
)

const (
	resultTTL = 10 * time.Minute

	// how many top candidates get the full enrichment fan-out
	topEnrichCount = 8

	combinedMaxResults = 12
	searchBiasRadiusM  = 1500

	socialFetchLimit = 6
)

// one regex decides the dispatch branch; this is a lexical heuristic, not NLP
var cafePattern = regexp.MustCompile(`\b(coffee|cafe|café)\b`)

type PlacesProvider interface {
	SearchNearby(ctx context.Context, q models.NearbyQuery) ([]models.POI, error)
	SearchText(ctx context.Context, q models.TextQuery) ([]models.POI, error)
	Details(ctx context.Context, id string) (models.POIDetail, error)
}

type SocialSource interface {
	SocialForPlace(ctx context.Context, name, city, neighborhood string, limit int) []social.Embed
}

type ServiceManagement interface {
	Search(ctx context.Context, req *models.SearchRequest) ([]models.EnrichedPOI, error)
	Nearby(ctx context.Context, req *models.NearbyRequest) ([]models.EnrichedPOI, error)
	Details(ctx context.Context, id string) (models.POIDetail, error)
}

// Service is the request-scoped search pipeline: dispatch, primary lookup,
// bounded enrichment fan-out, scoring, caching. The primary lookup failing
// is fatal for the request; a single candidate's enrichment failing never
// is.
type Service struct {
	provider PlacesProvider
	social   SocialSource
	cache    *cache.Store[[]models.EnrichedPOI]
	metrics  *obs.Metrics
	logger   *slog.Logger
}

func NewService(provider PlacesProvider, socialSource SocialSource, store *cache.Store[[]models.EnrichedPOI], m *obs.Metrics, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		social:   socialSource,
		cache:    store,
		metrics:  m,
		logger:   logger,
	}
}

// Search resolves a free-text query near a point. Coffee-ish queries take
// the typed nearby branch; everything else goes through text search biased
// to the caller's location.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) ([]models.EnrichedPOI, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Query))
	key := fmt.Sprintf("search:%s:%v:%v", normalized, req.Lat, req.Lon)

	return s.cache.GetOrCompute(ctx, key, resultTTL, func(ctx context.Context) ([]models.EnrichedPOI, error) {
		var (
			pois []models.POI
			err  error
		)
		if cafePattern.MatchString(normalized) {
			pois, err = s.provider.SearchNearby(ctx, models.NearbyQuery{
				Lat:    req.Lat,
				Lon:    req.Lon,
				Radius: searchBiasRadiusM,
				Type:   "cafe",
				Max:    combinedMaxResults,
			})
		} else {
			pois, err = s.provider.SearchText(ctx, models.TextQuery{
				Query:  req.Query,
				Lat:    req.Lat,
				Lon:    req.Lon,
				Radius: searchBiasRadiusM,
				Max:    combinedMaxResults,
			})
		}
		if err != nil {
			return nil, errors.Wrap(err, "primary place search")
		}

		list := s.enrichTop(ctx, pois, true, nil)
		s.scoreAndRank(list)
		return list, nil
	})
}

// Nearby resolves a typed circle search and enriches the top candidates with
// details only; each result carries its distance from the caller's point.
func (s *Service) Nearby(ctx context.Context, req *models.NearbyRequest) ([]models.EnrichedPOI, error) {
	key := fmt.Sprintf("nearby:%s:%v:%v:%d:%d", req.Type, req.Lat, req.Lon, req.Radius, req.Max)

	return s.cache.GetOrCompute(ctx, key, resultTTL, func(ctx context.Context) ([]models.EnrichedPOI, error) {
		pois, err := s.provider.SearchNearby(ctx, models.NearbyQuery{
			Lat:    req.Lat,
			Lon:    req.Lon,
			Radius: req.Radius,
			Type:   req.Type,
			Max:    req.Max,
		})
		if err != nil {
			return nil, errors.Wrap(err, "primary place search")
		}

		origin := &geoPoint{lat: req.Lat, lon: req.Lon}
		list := s.enrichTop(ctx, pois, false, origin)
		s.scoreAndRank(list)
		return list, nil
	})
}

func (s *Service) Details(ctx context.Context, id string) (models.POIDetail, error) {
	detail, err := s.provider.Details(ctx, id)
	if err != nil {
		return models.POIDetail{}, errors.Wrap(err, "place details")
	}
	return detail, nil
}

type geoPoint struct {
	lat, lon float64
}

// enrichment tags a candidate's outcome so the degraded path is explicit
// rather than a swallowed error.
type enrichment struct {
	poi      models.EnrichedPOI
	degraded bool
}

// enrichTop fans out over the top candidates; the rest pass through as bare
// summaries. Result order is fixed by candidate index, never by completion
// order, and one candidate's failure is invisible to the others.
func (s *Service) enrichTop(ctx context.Context, pois []models.POI, withSocial bool, origin *geoPoint) []models.EnrichedPOI {
	out := make([]models.EnrichedPOI, len(pois))
	for i := range pois {
		out[i] = models.EnrichedPOI{POI: pois[i]}
	}

	k := len(pois)
	if k > topEnrichCount {
		k = topEnrichCount
	}

	g := new(errgroup.Group)
	g.SetLimit(topEnrichCount)
	for i := 0; i < k; i++ {
		i := i
		g.Go(func() error {
			res := s.enrichCandidate(ctx, pois[i], withSocial)
			out[i] = res.poi
			return nil
		})
	}
	_ = g.Wait()

	if origin != nil {
		for i := range out {
			d := haversineMeters(origin.lat, origin.lon, out[i].Lat, out[i].Lon)
			out[i].DistanceM = &d
		}
	}
	return out
}

// enrichCandidate runs the detail fetch and social aggregation for one
// candidate concurrently. A failed detail fetch degrades the candidate to
// its summary; social aggregation cannot fail, only come back empty.
func (s *Service) enrichCandidate(ctx context.Context, poi models.POI, withSocial bool) enrichment {
	var (
		detail    models.POIDetail
		detailErr error
		embeds    []social.Embed
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		detail, detailErr = s.provider.Details(ctx, poi.ID)
	}()
	if withSocial {
		wg.Add(1)
		go func() {
			defer wg.Done()
			embeds = s.social.SocialForPlace(ctx, poi.Name, "", "", socialFetchLimit)
		}()
	}
	wg.Wait()

	var res enrichment
	if detailErr != nil {
		s.logger.Debug("detail enrichment degraded",
			"place_id", poi.ID,
			"error", detailErr,
		)
		s.metrics.IncEnrichmentDegraded("details")
		res = enrichment{poi: models.EnrichedPOI{POI: poi}, degraded: true}
	} else {
		res = enrichment{poi: poi.Merge(detail)}
	}
	res.poi.Social = embeds
	return res
}

// scoreAndRank computes the buzz score per candidate and stable-sorts the
// whole list descending by (buzzScore, rating). Missing ratings sort last on
// ties.
func (s *Service) scoreAndRank(list []models.EnrichedPOI) {
	for i := range list {
		n := len(list[i].Social)
		list[i].BuzzScore = ComputeBuzzScore(BuzzInputs{
			RecentCount: n,
			TotalCount:  n,
			Rating:      list[i].Rating,
		})
	}

	ratingOf := func(e models.EnrichedPOI) float64 {
		if e.Rating != nil {
			return *e.Rating
		}
		return -1
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].BuzzScore != list[j].BuzzScore {
			return list[i].BuzzScore > list[j].BuzzScore
		}
		return ratingOf(list[i]) > ratingOf(list[j])
	})
}
