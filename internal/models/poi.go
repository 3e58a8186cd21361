package models

import "github.com/burhanuddin20/pinpoint/internal/social"

// POI is the provider-neutral place summary. Optional upstream fields stay
// nil when absent, never a zero sentinel.
type POI struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingCount  *int     `json:"userRatingCount,omitempty"`
	OpenNow          *bool    `json:"openNow,omitempty"`
	FormattedAddress *string  `json:"formattedAddress,omitempty"`
}

type OpeningHours struct {
	OpenNow             *bool    `json:"openNow,omitempty"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// POIDetail holds the lazily fetched secondary fields for one place.
type POIDetail struct {
	Phone            *string       `json:"phone,omitempty"`
	Website          *string       `json:"website,omitempty"`
	OpeningHours     *OpeningHours `json:"openingHours,omitempty"`
	EditorialSummary *string       `json:"editorialSummary,omitempty"`
	PhotoRefs        []string      `json:"photoRefs,omitempty"`
}

// EnrichedPOI is a summary merged with whatever enrichment succeeded for it.
// A candidate whose enrichment degraded carries only its summary fields.
type EnrichedPOI struct {
	POI
	Phone            *string        `json:"phone,omitempty"`
	Website          *string        `json:"website,omitempty"`
	OpeningHours     *OpeningHours  `json:"openingHours,omitempty"`
	EditorialSummary *string        `json:"editorialSummary,omitempty"`
	PhotoRefs        []string       `json:"photoRefs,omitempty"`
	DistanceM        *float64       `json:"distanceM,omitempty"`
	Social           []social.Embed `json:"social,omitempty"`
	BuzzScore        float64        `json:"buzzScore"`
}

// Merge returns the enriched form of p with d folded in.
func (p POI) Merge(d POIDetail) EnrichedPOI {
	e := EnrichedPOI{POI: p}
	e.Phone = d.Phone
	e.Website = d.Website
	e.OpeningHours = d.OpeningHours
	e.EditorialSummary = d.EditorialSummary
	e.PhotoRefs = d.PhotoRefs
	if e.OpenNow == nil && d.OpeningHours != nil {
		e.OpenNow = d.OpeningHours.OpenNow
	}
	return e
}

// NearbyQuery describes a circle-bounded typed place search.
type NearbyQuery struct {
	Lat    float64
	Lon    float64
	Radius int
	Type   string
	Max    int
}

// TextQuery describes a free-text place search biased to a circle.
type TextQuery struct {
	Query  string
	Lat    float64
	Lon    float64
	Radius int
	Max    int
}
